package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-cards/internal/handler"
	"github.com/sakif/code-cards/internal/model"
	"github.com/sakif/code-cards/internal/reddit"
	"github.com/sakif/code-cards/internal/service"
	"github.com/sakif/code-cards/internal/store"
)

const testThreadURL = "https://www.reddit.com/r/adventofcode/comments/abc/comment/def"

// stubFetcher stands in for the Reddit client: URLs it knows resolve, the
// rest behave like dead links.
type stubFetcher struct {
	data map[string]*reddit.ThreadData
}

func (f *stubFetcher) Fetch(_ context.Context, redditURL string) (*reddit.ThreadData, error) {
	return f.data[redditURL], nil
}

// testAPI wires the real handlers, services, and a file store onto the same
// route patterns the server uses, with only the upstream faked.
type testAPI struct {
	router  *chi.Mux
	store   *store.FileStore
	fetcher *stubFetcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "serverdb.json"))
	fetcher := &stubFetcher{data: map[string]*reddit.ThreadData{}}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	cardHandler := handler.NewCardHandler(service.NewCardService(fileStore, fetcher, logger), logger)
	commentHandler := handler.NewCommentHandler(service.NewCommentService(fileStore, logger), logger)

	router := chi.NewRouter()
	router.Get("/cards", cardHandler.HandleList)
	router.Get("/cards/{id:[0-9]+}", cardHandler.HandleGetByID)
	router.Get("/cards/{id:[0-9]+}/reddit", cardHandler.HandleRedditThread)
	router.Post("/cards", cardHandler.HandleCreate)
	router.Get("/comments", commentHandler.HandleList)
	router.Get("/comments/{id:[0-9]+}", commentHandler.HandleGetByID)
	router.Post("/comments", commentHandler.HandleCreate)
	router.Put("/comments/{id:[0-9]+}", commentHandler.HandleEdit)
	router.Put("/comments", commentHandler.HandleEditMissingID)

	return &testAPI{router: router, store: fileStore, fetcher: fetcher}
}

// seed replaces the durable document wholesale.
func (a *testAPI) seed(t *testing.T, doc *model.Document) {
	t.Helper()
	require.NoError(t, a.store.Save(context.Background(), doc))
}

// dump reads the durable document back, so tests can assert on what was
// actually persisted rather than just on responses.
func (a *testAPI) dump(t *testing.T) *model.Document {
	t.Helper()
	doc, err := a.store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) get(target string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, "")
}

// twoCardDoc is the standard seed: two cards with ids 0 and 1, card 1
// owning comments 0 and 1.
func twoCardDoc() *model.Document {
	doc := model.NewDocument()
	doc.Cards = append(doc.Cards,
		model.Card{ID: 0, Title: "Day 1", Language: "go", Code: "one", RedditURL: testThreadURL, Comments: []int{}},
		model.Card{ID: 1, Title: "Day 2", Language: "python", Code: "two", RedditURL: testThreadURL, Comments: []int{0, 1}},
	)
	doc.Comments = append(doc.Comments,
		model.Comment{ID: 0, Content: "first", Parent: 1},
		model.Comment{ID: 1, Content: "second", Parent: 1},
	)
	return doc
}
