// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// RedditData is the cached subset of upstream Reddit metadata attached to a
// Card. It is refreshed opportunistically whenever the card is read, and may
// go stale between reads — it is never the source of truth for anything
// (comment counts come from len(Card.Comments), not from here).
type RedditData struct {
	Score          int    `json:"score"`
	Author         string `json:"author"`
	NumSubComments int    `json:"numSubComments"`
}

// Card represents a shared code snippet tied to a Reddit comment thread.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct. The tag names match the wire format the client and the
// durable store both use (e.g. redditUrl, not reddit_url).
//
// Comments holds the ids of this card's comments in insertion order; the
// comment entities themselves live in the store's comments collection.
type Card struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Language   string     `json:"language"`
	Code       string     `json:"code"`
	RedditURL  string     `json:"redditUrl"`
	Likes      int        `json:"likes"`
	Time       time.Time  `json:"time"`
	Comments   []int      `json:"comments"`
	RedditData RedditData `json:"redditData"`
}

// EntityID implements store.Entity so id assignment and lookup helpers
// can treat cards and comments uniformly.
func (c Card) EntityID() int { return c.ID }
