package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-cards/internal/model"
)

func decodeComments(t *testing.T, body []byte) []model.Comment {
	t.Helper()
	var comments []model.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	return comments
}

func TestGetComments(t *testing.T) {
	t.Run("returns all comments as an array", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.get("/comments")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "json")
		assert.Len(t, decodeComments(t, rr.Body.Bytes()), 2)
	})

	t.Run("ids query selects a subset", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.get("/comments?ids=1,10")
		assert.Equal(t, http.StatusOK, rr.Code)
		comments := decodeComments(t, rr.Body.Bytes())
		require.Len(t, comments, 1)
		assert.Equal(t, 1, comments[0].ID)
	})

	t.Run("nonexistent ids give empty array with status 200", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.get("/comments?ids=10")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("path id returns a single object", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.get("/comments/0")
		assert.Equal(t, http.StatusOK, rr.Code)

		var comment model.Comment
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &comment))
		assert.Equal(t, "first", comment.Content)
	})

	t.Run("missing path id is 404", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.get("/comments/10")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "comment(s)-not-found", kind)
	})

	t.Run("comment reads do not touch the store", func(t *testing.T) {
		api := newTestAPI(t)
		doc := twoCardDoc()
		api.seed(t, doc)
		before := api.dump(t)

		api.get("/comments")
		api.get("/comments/0")

		assert.Equal(t, before, api.dump(t))
	})
}

func TestPostComments(t *testing.T) {
	t.Run("creates and links starting from a single empty card", func(t *testing.T) {
		// The end-to-end scenario: {cards:[{id:0,comments:[]}], comments:[]}
		api := newTestAPI(t)
		doc := model.NewDocument()
		doc.Cards = append(doc.Cards, model.Card{ID: 0, Title: "Day 1", RedditURL: testThreadURL, Comments: []int{}})
		api.seed(t, doc)

		rr := api.do(http.MethodPost, "/comments", `{"content": "hi", "parent": 0}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Message          string `json:"message"`
			NewTotalComments int    `json:"newTotalComments"`
			ID               int    `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Added new comment successfully.", resp.Message)
		assert.Equal(t, 1, resp.NewTotalComments)
		assert.Equal(t, 0, resp.ID)

		after := api.dump(t)
		assert.Equal(t, []int{0}, after.Cards[0].Comments)
		require.Len(t, after.Comments, 1)
		created := after.Comments[0]
		assert.Equal(t, "hi", created.Content)
		assert.Equal(t, 0, created.Parent)
		assert.False(t, created.Time.IsZero())
		assert.Nil(t, created.LastEdited)
	})

	t.Run("newTotalComments matches the parent's grown list", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPost, "/comments", `{"content": "Test Content", "parent": 1}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			NewTotalComments int `json:"newTotalComments"`
			ID               int `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.ID)
		assert.Equal(t, 3, resp.NewTotalComments)
		assert.Equal(t, len(api.dump(t).Cards[1].Comments), resp.NewTotalComments)
	})

	t.Run("numeric string parent is accepted", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPost, "/comments", `{"content": "c", "parent": "1"}`)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("non-numeric parent is 422", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPost, "/comments", `{"content": "c", "parent": "abc"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "invalid-type-of-parent", kind)
	})

	t.Run("numeric but nonexistent parent is 404 and persists nothing", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPost, "/comments", `{"content": "c", "parent": 10}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "parent-card-not-found", kind)
		assert.Len(t, api.dump(t).Comments, 2)
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		api := newTestAPI(t)

		rr := api.do(http.MethodPost, "/comments", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		kind, message := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "request-body-field-error", kind)
		assert.Contains(t, message, "content")
		assert.Contains(t, message, "parent")
	})
}

func TestPutComments(t *testing.T) {
	t.Run("edits content and stamps lastEdited only", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())
		before := api.dump(t).Comments[1]

		rr := api.do(http.MethodPut, "/comments/1", `{"content": "New Content!"}`)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())

		after := api.dump(t).Comments[1]
		assert.Equal(t, "New Content!", after.Content)
		require.NotNil(t, after.LastEdited)
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, before.Parent, after.Parent)
		assert.Equal(t, before.Time, after.Time)
	})

	t.Run("missing path id is 400 no-comment-to-put", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPut, "/comments", `{"content": "Test Content"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "no-comment-to-put", kind)
	})

	t.Run("missing content field is 400", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPut, "/comments/1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "request-body-field-error", kind)
	})

	t.Run("unknown comment id is 404", func(t *testing.T) {
		api := newTestAPI(t)
		api.seed(t, twoCardDoc())

		rr := api.do(http.MethodPut, "/comments/10", `{"content": "x"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		kind, _ := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "comment(s)-not-found", kind)
	})
}
