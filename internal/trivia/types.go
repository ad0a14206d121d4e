// Package trivia talks to the remote trivia provider and turns its records
// into board categories.
//
// The provider speaks the jService API shape:
//
//	GET /categories?count=N  → [{"id": 11, "title": "...", "clues_count": 5}, ...]
//	GET /category?id=11      → {"id": 11, "title": "...", "clues": [{"question": "...", "answer": "..."}]}
package trivia

import (
	"context"
	"strconv"
)

// CategoryID is the provider's opaque category key. It is only used to look
// a category up during a single deal and is never stored.
type CategoryID int64

func (id CategoryID) String() string { return strconv.FormatInt(int64(id), 10) }

// CategorySummary is one entry of the /categories pool.
// Only ID is used by the board; the rest is informational.
type CategorySummary struct {
	ID         CategoryID `json:"id"`
	Title      string     `json:"title,omitempty"`
	CluesCount int        `json:"clues_count,omitempty"`
}

// RawClue is a clue as the provider returns it. Pointer fields distinguish
// an absent field from an empty one.
type RawClue struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// RawCategory is the /category payload.
// A nil Clues slice means the field was missing from the response.
type RawCategory struct {
	ID    CategoryID `json:"id"`
	Title *string    `json:"title"`
	Clues []RawClue  `json:"clues"`
}

// Provider is the remote data source for a deal.
type Provider interface {
	// Categories returns a pool of up to count candidate categories.
	Categories(ctx context.Context, count int) ([]CategorySummary, error)

	// Category returns the title and clues for a single category.
	Category(ctx context.Context, id CategoryID) (*RawCategory, error)
}
