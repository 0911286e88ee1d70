package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/service"
)

// CardHandler exposes the card endpoints.
//
// ADDRESSING MODES:
// GET requests resolve cards one of three ways, collapsing to one rule:
// a path id resolves exactly that id (404 if absent), an ids query
// parameter resolves that set (missing ids just shrink the array), and
// neither resolves the whole collection. Only the single-path-id mode can
// 404 — an empty array is a perfectly good answer for the other two.
type CardHandler struct {
	service *service.CardService
	logger  *slog.Logger
}

func NewCardHandler(svc *service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		service: svc,
		logger:  logger,
	}
}

// HandleList serves GET /cards and GET /cards?ids=a,b,c.
// Responds 200 with an array either way, possibly empty.
func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var ids []int
	if param := r.URL.Query().Get("ids"); param != "" {
		ids = parseIDList(param)
	}

	cards, err := h.service.List(r.Context(), ids)
	if err != nil {
		h.logger.Error("listing cards failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// HandleGetByID serves GET /cards/{id}. Responds 200 with the single card
// object (not wrapped in an array), or 404.
func (h *CardHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		// The route pattern only admits digits; this is unreachable in
		// practice but cheap to keep correct.
		writeError(w, err)
		return
	}

	card, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandleRedditThread serves GET /cards/{id}/reddit: the live upstream
// metadata for the card's thread, independent of the cached redditData.
func (h *CardHandler) HandleRedditThread(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	raw, err := h.service.RedditThread(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

type createCardRequest struct {
	Title     *string `json:"title"`
	Language  *string `json:"language"`
	Code      *string `json:"code"`
	RedditURL *string `json:"redditUrl"`
}

type createCardResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

// HandleCreate serves POST /cards.
//
// Validation order matters: field presence first (400 listing every missing
// field), then the Reddit URL pattern and creation-time resolution (422).
// Nothing is persisted on any failure path.
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if fields := missing([]requiredField{
		{"title", req.Title},
		{"language", req.Language},
		{"code", req.Code},
		{"redditUrl", req.RedditURL},
	}); len(fields) > 0 {
		writeError(w, apperror.MissingFields(fields))
		return
	}

	id, err := h.service.Create(r.Context(), *req.Title, *req.Language, *req.Code, *req.RedditURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCardResponse{
		Message: "Added new card successfully.",
		ID:      id,
	})
}
