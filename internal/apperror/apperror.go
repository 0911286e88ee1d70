package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error classes. Handlers map these to HTTP status codes with
// errors.Is; the Kind string on AppError is what goes on the wire.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrUnprocessable = errors.New("unprocessable")
	ErrStorage       = errors.New("storage error")
)

// AppError is a domain error carrying the machine-readable kind string used
// in API error bodies ({"error": Kind, "message": Message}).
type AppError struct {
	Err     error  // sentinel class (drives the HTTP status)
	Kind    string // machine-readable error kind, e.g. "card(s)-not-found"
	Message string // human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func CardsNotFound(ids ...int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Kind:    "card(s)-not-found",
		Message: fmt.Sprintf("No card(s) found with id(s) %v.", ids),
	}
}

func CommentsNotFound(ids ...int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Kind:    "comment(s)-not-found",
		Message: fmt.Sprintf("No comment(s) found with id(s) %v.", ids),
	}
}

// MissingFields reports every required request-body field that was absent,
// not just the first one found.
func MissingFields(fields []string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Kind:    "request-body-field-error",
		Message: fmt.Sprintf("Request body is missing field(s): %s.", strings.Join(fields, ", ")),
	}
}

func MalformedBody() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Kind:    "request-body-field-error",
		Message: "Request body must be a JSON object.",
	}
}

func RedditLinkFailed() *AppError {
	return &AppError{
		Err:     ErrUnprocessable,
		Kind:    "reddit-link-failed",
		Message: "The Reddit link provided was invalid or could not be resolved.",
	}
}

func InvalidParentType() *AppError {
	return &AppError{
		Err:     ErrUnprocessable,
		Kind:    "invalid-type-of-parent",
		Message: "The parent field must be convertible to an integer card id.",
	}
}

func ParentCardNotFound(id int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Kind:    "parent-card-not-found",
		Message: fmt.Sprintf("No parent card found with id %d.", id),
	}
}

func NoCommentToPut() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Kind:    "no-comment-to-put",
		Message: "A comment id is required to update a comment.",
	}
}

// ReadFailed wraps a storage read/parse failure. The underlying error is
// kept for logs but never exposed in the API message.
func ReadFailed(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Kind:    "database-read-error",
		Message: "Reading from the database failed.",
	}
}

// WriteFailed wraps a storage write failure. A write failure after a valid
// in-memory mutation must still surface as an error to the caller.
func WriteFailed(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Kind:    "database-write-error",
		Message: "Writing to the database failed.",
	}
}
