// internal/game/types.go
//
// Core type definitions for the Jeopardy board.
// Defines:
//   - RevealState: what a single clue cell currently shows.
//   - Clue: one question/answer pair plus its reveal state.
//   - Category: a titled, ordered column of clues.

package game

import "fmt"

// Board dimensions. Only the first NumQuestionsPerCat clues of a category are
// shown; anything the provider returns beyond that is ignored.
const (
	NumCategories      = 6
	NumQuestionsPerCat = 5
)

// HiddenGlyph is the text shown in a cell whose clue has not been revealed.
const HiddenGlyph = "?"

// RevealState is the progress marker for a single clue.
// It only ever moves forward: Hidden → Question → Answer.
type RevealState int

const (
	Hidden RevealState = iota
	Question
	Answer
)

// String returns the wire name of the state ("hidden", "question", "answer").
func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	}
	return fmt.Sprintf("RevealState(%d)", int(s))
}

// MarshalText lets RevealState encode as its wire name in JSON.
func (s RevealState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Clue is a single question/answer pair.
// Showing is owned by Advance; nothing else writes it.
type Clue struct {
	Question string      // Question text, as returned by the provider.
	Answer   string      // Answer text with the italic wrapper stripped.
	Showing  RevealState // Current reveal state (Hidden for a fresh deal).
}

// Category is one column of the board.
// Clue order is fixed at load time and maps to the row position.
type Category struct {
	Title string
	Clues []*Clue
}

// Visible returns the clues that get a row on the board.
// A short category returns fewer than NumQuestionsPerCat clues.
func (c *Category) Visible() []*Clue {
	if len(c.Clues) > NumQuestionsPerCat {
		return c.Clues[:NumQuestionsPerCat]
	}
	return c.Clues
}

// ClueAt returns the clue in the given row, or nil if the category is too
// short to fill that row.
func (c *Category) ClueAt(row int) *Clue {
	visible := c.Visible()
	if row < 0 || row >= len(visible) {
		return nil
	}
	return visible[row]
}
