// Package store is the sole path through which the card/comment document is
// read and written.
//
// THE ACCESSOR CONTRACT:
// Every request that touches the store loads the WHOLE document fresh,
// mutates it in memory, and persists it back in full — there is no
// in-memory-resident authoritative copy and no partial writes. Update is
// the one mutation path: it serializes the entire read-modify-write cycle
// per store, so two concurrent mutating requests cannot lose each other's
// writes (the original flat-file design raced; serializing the cycle keeps
// the same observable behaviour without the lost-update anomaly).
//
// Two backends implement the contract: a flat JSON file (the durable layout
// the client tooling expects) and a SQLite-backed single-row document table.
package store

import (
	"context"

	"github.com/sakif/code-cards/internal/model"
)

// Store provides load/save access to the whole document.
//
// Load and Save are whole-document operations; Save overwrites the previous
// durable content in full. Both fail with apperror.ReadFailed /
// apperror.WriteFailed, which handlers translate into 500 responses.
type Store interface {
	// Load reads durable storage and parses it into the document shape.
	Load(ctx context.Context) (*model.Document, error)

	// Save serializes the document back to durable storage, replacing the
	// previous content in full.
	Save(ctx context.Context, doc *model.Document) error

	// Update runs fn inside a serialized read-modify-write cycle: load,
	// mutate, persist. If fn returns an error, nothing is persisted and
	// that error is returned unchanged.
	Update(ctx context.Context, fn func(doc *model.Document) error) error

	Close() error
}

// Entity is anything with an integer id — cards and comments both qualify,
// so id assignment and lookup work generically over either collection.
type Entity interface {
	EntityID() int
}

// NextID returns 0 for an empty collection, else max(existing ids)+1.
// It is recomputed from the current contents on every call — there is no
// persisted counter — so ids never collide even if entries were removed
// out of band.
func NextID[T Entity](items []T) int {
	next := 0
	for _, item := range items {
		if id := item.EntityID(); id >= next {
			next = id + 1
		}
	}
	return next
}

// FindByIDs returns, in the collection's original relative order, every
// entry whose id is in ids. The order of ids is irrelevant to the result.
func FindByIDs[T Entity](items []T, ids []int) []T {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	found := []T{}
	for _, item := range items {
		if want[item.EntityID()] {
			found = append(found, item)
		}
	}
	return found
}
