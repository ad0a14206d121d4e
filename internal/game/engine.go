// internal/game/engine.go
//
// Game rules for a single clue.
// Responsibilities:
//   - Normalize raw provider answers (strip the <i>…</i> wrapper).
//   - Build clues in their initial Hidden state.
//   - Advance a clue through Hidden → Question → Answer on each click.
package game

import (
	"fmt"
	"strings"
)

const (
	italicOpen  = "<i>"
	italicClose = "</i>"
)

// NormalizeAnswer strips a leading "<i>" and trailing "</i>" when the raw
// answer carries both. Anything else is returned verbatim, including answers
// that merely contain the tag somewhere in the middle.
func NormalizeAnswer(raw string) string {
	if len(raw) < len(italicOpen)+len(italicClose) {
		return raw
	}
	if strings.HasPrefix(raw, italicOpen) && strings.HasSuffix(raw, italicClose) {
		return raw[len(italicOpen) : len(raw)-len(italicClose)]
	}
	return raw
}

// NewClue builds a Hidden clue from provider text.
// Returns ErrMalformedRecord if either side of the pair is blank.
func NewClue(question, answer string) (*Clue, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: clue has no question text", ErrMalformedRecord)
	}
	answer = NormalizeAnswer(answer)
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: clue %q has no answer text", ErrMalformedRecord, question)
	}
	return &Clue{Question: question, Answer: answer, Showing: Hidden}, nil
}

// Advance moves c one step forward and returns the text the cell should now
// display.
//
//	Hidden   → Question (shows the question)
//	Question → Answer   (shows the answer)
//	Answer   → Answer   (no-op; shows the answer again)
func Advance(c *Clue) string {
	switch c.Showing {
	case Hidden:
		c.Showing = Question
		return c.Question
	case Question:
		c.Showing = Answer
		return c.Answer
	case Answer:
		return c.Answer
	default:
		panic(fmt.Sprintf("game: clue in impossible state %s", c.Showing))
	}
}

// Display reports the text for c's current state without changing it.
func Display(c *Clue) string {
	switch c.Showing {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	}
	return HiddenGlyph
}
