// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services enforce the domain
// rules (id assignment, cross-entity consistency, enrichment policy); the
// store handles durable state. Services receive the store.Store and
// RedditFetcher interfaces, never concrete backends, so tests inject
// in-memory fakes.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/model"
	"github.com/sakif/code-cards/internal/reddit"
	"github.com/sakif/code-cards/internal/store"
)

// RedditFetcher resolves a comment-thread URL into its live metadata.
// (nil, nil) means the link no longer resolves; callers keep cached data.
type RedditFetcher interface {
	Fetch(ctx context.Context, redditURL string) (*reddit.ThreadData, error)
}

// CardService handles business logic for cards.
type CardService struct {
	store  store.Store
	reddit RedditFetcher
	logger *slog.Logger
}

func NewCardService(st store.Store, fetcher RedditFetcher, logger *slog.Logger) *CardService {
	return &CardService{
		store:  st,
		reddit: fetcher,
		logger: logger,
	}
}

// List resolves a set of cards and refreshes each one's cached Reddit
// metadata. ids == nil means the whole collection; a non-nil (possibly
// empty) ids slice selects by id, preserving collection order. The store
// is persisted afterwards because redditData mutated — card reads are not
// side-effect-free at the storage layer.
//
// A missing id is not an error in this mode: the result is just shorter,
// possibly empty.
func (s *CardService) List(ctx context.Context, ids []int) ([]model.Card, error) {
	var want map[int]bool
	if ids != nil {
		want = make(map[int]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
	}

	result := []model.Card{}
	err := s.store.Update(ctx, func(doc *model.Document) error {
		for i := range doc.Cards {
			if want != nil && !want[doc.Cards[i].ID] {
				continue
			}
			s.refresh(ctx, &doc.Cards[i])
			result = append(result, doc.Cards[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID resolves a single card by id, refreshing and persisting its
// Reddit metadata. Returns apperror.CardsNotFound if no card has that id.
func (s *CardService) GetByID(ctx context.Context, id int) (*model.Card, error) {
	var found *model.Card
	err := s.store.Update(ctx, func(doc *model.Document) error {
		for i := range doc.Cards {
			if doc.Cards[i].ID != id {
				continue
			}
			s.refresh(ctx, &doc.Cards[i])
			card := doc.Cards[i]
			found = &card
			return nil
		}
		return apperror.CardsNotFound(id)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Create validates the Reddit URL, resolves it upstream, and appends a new
// card. Nothing is persisted unless both checks pass: an unmatched URL
// pattern and an unresolvable link are the same client-facing failure.
func (s *CardService) Create(ctx context.Context, title, language, code, redditURL string) (int, error) {
	resolved, ok := reddit.ResolveURL(redditURL)
	if !ok {
		return 0, apperror.RedditLinkFailed()
	}

	data, err := s.reddit.Fetch(ctx, resolved)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, apperror.RedditLinkFailed()
	}

	var id int
	err = s.store.Update(ctx, func(doc *model.Document) error {
		id = store.NextID(doc.Cards)
		doc.Cards = append(doc.Cards, model.Card{
			ID:        id,
			Title:     title,
			Language:  language,
			Code:      code,
			RedditURL: resolved,
			Likes:     0,
			Time:      time.Now().UTC(),
			Comments:  []int{},
			RedditData: model.RedditData{
				Score:          data.Score,
				Author:         data.Author,
				NumSubComments: data.NumSubComments,
			},
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("card created",
		slog.Int("id", id),
		slog.String("title", title),
		slog.String("redditUrl", resolved),
	)
	return id, nil
}

// RedditThread returns the raw upstream metadata for a card's thread,
// independent of the cached redditData shape. The card must exist; a card
// whose link no longer resolves yields apperror.RedditLinkFailed.
func (s *CardService) RedditThread(ctx context.Context, id int) (json.RawMessage, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var redditURL string
	found := false
	for i := range doc.Cards {
		if doc.Cards[i].ID == id {
			redditURL = doc.Cards[i].RedditURL
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.CardsNotFound(id)
	}

	data, err := s.reddit.Fetch(ctx, redditURL)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, apperror.RedditLinkFailed()
	}
	return data.Raw, nil
}

// refresh merges live Reddit metadata into the card's cache. If the link
// no longer resolves the existing cache is left untouched — the card is
// never dropped for this reason.
func (s *CardService) refresh(ctx context.Context, card *model.Card) {
	data, err := s.reddit.Fetch(ctx, card.RedditURL)
	if err != nil {
		s.logger.Warn("reddit refresh aborted",
			slog.Int("id", card.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	if data == nil {
		return
	}
	card.RedditData = model.RedditData{
		Score:          data.Score,
		Author:         data.Author,
		NumSubComments: data.NumSubComments,
	}
}
