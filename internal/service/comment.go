package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/model"
	"github.com/sakif/code-cards/internal/store"
)

// CommentService handles business logic for comments. Unlike cards,
// comment reads involve no external enrichment and therefore no store
// write.
type CommentService struct {
	store  store.Store
	logger *slog.Logger
}

func NewCommentService(st store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:  st,
		logger: logger,
	}
}

// List resolves comments by id set (nil means all), preserving collection
// order. Missing ids shrink the result; they are not an error here.
func (s *CommentService) List(ctx context.Context, ids []int) ([]model.Comment, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return doc.Comments, nil
	}
	return store.FindByIDs(doc.Comments, ids), nil
}

// GetByID returns the single comment with the given id, or
// apperror.CommentsNotFound.
func (s *CommentService) GetByID(ctx context.Context, id int) (*model.Comment, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Comments {
		if doc.Comments[i].ID == id {
			return &doc.Comments[i], nil
		}
	}
	return nil, apperror.CommentsNotFound(id)
}

// Create appends a new comment and pushes its id onto the parent card's
// comments list. Both mutations land in the same store write, so the two
// views of the relationship can never diverge. Returns the new comment's
// id and the parent's new comment total.
func (s *CommentService) Create(ctx context.Context, content string, parent int) (id, newTotal int, err error) {
	err = s.store.Update(ctx, func(doc *model.Document) error {
		cardIdx := -1
		for i := range doc.Cards {
			if doc.Cards[i].ID == parent {
				cardIdx = i
				break
			}
		}
		if cardIdx < 0 {
			return apperror.ParentCardNotFound(parent)
		}

		id = store.NextID(doc.Comments)
		doc.Comments = append(doc.Comments, model.Comment{
			ID:         id,
			Content:    content,
			Parent:     parent,
			Time:       time.Now().UTC(),
			LastEdited: nil,
		})

		card := &doc.Cards[cardIdx]
		card.Comments = append(card.Comments, id)
		newTotal = len(card.Comments)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	s.logger.Info("comment created",
		slog.Int("id", id),
		slog.Int("parent", parent),
	)
	return id, newTotal, nil
}

// Edit replaces a comment's content and stamps lastEdited. Everything else
// on the comment (id, parent, creation time) is left untouched.
func (s *CommentService) Edit(ctx context.Context, id int, content string) error {
	err := s.store.Update(ctx, func(doc *model.Document) error {
		for i := range doc.Comments {
			if doc.Comments[i].ID != id {
				continue
			}
			now := time.Now().UTC()
			doc.Comments[i].Content = content
			doc.Comments[i].LastEdited = &now
			return nil
		}
		return apperror.CommentsNotFound(id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment edited", slog.Int("id", id))
	return nil
}
