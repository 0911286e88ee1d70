package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/service"
)

// CommentHandler exposes the comment endpoints. Same three addressing
// modes as cards, but comment reads never touch the upstream and never
// write back to the store.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		service: svc,
		logger:  logger,
	}
}

// HandleList serves GET /comments and GET /comments?ids=a,b,c.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var ids []int
	if param := r.URL.Query().Get("ids"); param != "" {
		ids = parseIDList(param)
	}

	comments, err := h.service.List(r.Context(), ids)
	if err != nil {
		h.logger.Error("listing comments failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleGetByID serves GET /comments/{id}.
func (h *CommentHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

type createCommentRequest struct {
	Content *string         `json:"content"`
	Parent  json.RawMessage `json:"parent"`
}

type createCommentResponse struct {
	Message          string `json:"message"`
	NewTotalComments int    `json:"newTotalComments"`
	ID               int    `json:"id"`
}

// HandleCreate serves POST /comments.
//
// Check order: field presence (400) → parent convertibility (422) →
// parent existence (404, inside the store transaction). The comment's
// insertion and the id push onto the parent card land in one store write.
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if fields := missing([]requiredField{
		{"content", req.Content},
		{"parent", &req.Parent},
	}); len(fields) > 0 {
		writeError(w, apperror.MissingFields(fields))
		return
	}

	parent, ok := parseParent(req.Parent)
	if !ok {
		writeError(w, apperror.InvalidParentType())
		return
	}

	id, newTotal, err := h.service.Create(r.Context(), *req.Content, parent)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCommentResponse{
		Message:          "Added new comment successfully.",
		NewTotalComments: newTotal,
		ID:               id,
	})
}

type editCommentRequest struct {
	Content *string `json:"content"`
}

// HandleEdit serves PUT /comments/{id}. Success is 204 with an empty body.
func (h *CommentHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req editCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if fields := missing([]requiredField{{"content", req.Content}}); len(fields) > 0 {
		writeError(w, apperror.MissingFields(fields))
		return
	}

	if err := h.service.Edit(r.Context(), id, *req.Content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEditMissingID answers PUT /comments (no path id) with the
// dedicated 400 kind so clients can tell "you forgot the id" apart from a
// bad body.
func (h *CommentHandler) HandleEditMissingID(w http.ResponseWriter, r *http.Request) {
	writeError(w, apperror.NoCommentToPut())
}
