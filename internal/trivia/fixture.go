// internal/trivia/fixture.go
//
// File-backed Provider.
//
// Responsibilities:
//   - Serve categories from a JSON document instead of the network, so the
//     board can be developed and demoed without the remote API.
//   - Fall back to a small embedded sample when no file is configured.
//
// Document shape (same records the HTTP API returns):
//
//	{"categories": [{"id": 1, "title": "...", "clues": [{"question": "...", "answer": "..."}]}]}
//
// Environment:
//
//	TRIVIA_FIXTURE_FILE=/path/to/categories.json   (or "embedded")
package trivia

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/robalobadob/jeopardy/internal/game"
)

//go:embed default_fixture.json
var embeddedFixture []byte

// EmbeddedFixture is the TRIVIA_FIXTURE_FILE value that selects the built-in
// sample instead of a file on disk.
const EmbeddedFixture = "embedded"

type fixtureDoc struct {
	Categories []RawCategory `json:"categories"`
}

// Fixture serves a fixed set of categories. It is never modified after
// NewFixture, so it is safe for concurrent use without locking.
type Fixture struct {
	order []CategoryID
	byID  map[CategoryID]RawCategory
}

// NewFixture builds a Fixture from in-memory records. Later duplicates of
// an id replace earlier ones but keep the first position.
func NewFixture(categories []RawCategory) *Fixture {
	f := &Fixture{byID: make(map[CategoryID]RawCategory, len(categories))}
	for _, c := range categories {
		if _, seen := f.byID[c.ID]; !seen {
			f.order = append(f.order, c.ID)
		}
		f.byID[c.ID] = c
	}
	return f
}

// LoadFixture reads a fixture document from path, or the embedded sample
// when path is EmbeddedFixture.
func LoadFixture(path string) (*Fixture, error) {
	data := embeddedFixture
	if path != EmbeddedFixture {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading fixture: %w", err)
		}
	}
	return parseFixture(data)
}

// DefaultFixture returns the embedded sample.
func DefaultFixture() *Fixture {
	f, err := parseFixture(embeddedFixture)
	if err != nil {
		panic("trivia: embedded fixture is invalid: " + err.Error())
	}
	return f
}

func parseFixture(data []byte) (*Fixture, error) {
	var doc fixtureDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("parsing fixture: no categories")
	}
	return NewFixture(doc.Categories), nil
}

// Categories returns the first count categories in document order.
func (f *Fixture) Categories(ctx context.Context, count int) ([]CategorySummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrProviderUnavailable, err)
	}

	n := len(f.order)
	if count >= 0 && count < n {
		n = count
	}
	out := make([]CategorySummary, 0, n)
	for _, id := range f.order[:n] {
		c := f.byID[id]
		s := CategorySummary{ID: id, CluesCount: len(c.Clues)}
		if c.Title != nil {
			s.Title = *c.Title
		}
		out = append(out, s)
	}
	return out, nil
}

// Category returns a copy of the stored record.
// An unknown id behaves like a provider 404.
func (f *Fixture) Category(ctx context.Context, id CategoryID) (*RawCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrProviderUnavailable, err)
	}

	c, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s not found", game.ErrProviderUnavailable, id)
	}
	if c.Clues != nil {
		c.Clues = append(make([]RawClue, 0, len(c.Clues)), c.Clues...)
	}
	return &c, nil
}

// Len reports how many categories the fixture holds.
func (f *Fixture) Len() int {
	return len(f.order)
}
