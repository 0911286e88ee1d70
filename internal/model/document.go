package model

// Document is the whole store: every card and every comment, in insertion
// order. The entire document is loaded fresh from durable storage at the
// start of each request that touches it, mutated in memory, and persisted
// back in full before the response is sent.
type Document struct {
	Cards    []Card    `json:"cards"`
	Comments []Comment `json:"comments"`
}

// NewDocument returns an empty document with non-nil collections, so an
// empty store serializes as {"cards":[],"comments":[]} rather than nulls.
func NewDocument() *Document {
	return &Document{
		Cards:    []Card{},
		Comments: []Comment{},
	}
}
