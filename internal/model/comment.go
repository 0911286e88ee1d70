// Package model defines the data structures used throughout the application.
package model

import "time"

// Comment is a user-authored text entity attached to exactly one Card.
//
// Parent is the id of the owning card and must reference an existing card
// at creation time. LastEdited is a pointer so an unedited comment
// serializes as `"lastEdited": null` rather than a zero timestamp.
type Comment struct {
	ID         int        `json:"id"`
	Content    string     `json:"content"`
	Parent     int        `json:"parent"`
	Time       time.Time  `json:"time"`
	LastEdited *time.Time `json:"lastEdited"`
}

// EntityID implements store.Entity.
func (c Comment) EntityID() int { return c.ID }
