// Package board projects the dealt categories onto a grid.
//
// A Renderer writes into any Target (the web Table, the terminal Text view).
// Each body cell is bound to exactly one clue; clicking the cell advances
// that clue and the cell's text is replaced with whatever Advance returns.
package board

import (
	"github.com/robalobadob/jeopardy/internal/game"
)

// ClickFunc advances the clue bound to a cell and returns its new text.
type ClickFunc func() string

// Target is the tabular surface a board is drawn on.
type Target interface {
	AppendHeaderCell(text string)
	// AppendBodyCell adds the next cell in row-major order. A nil onClick
	// marks an inert padding cell.
	AppendBodyCell(initialText string, onClick ClickFunc)
	ClearHeaderCells()
	ClearBodyCells()
}

// Renderer draws categories onto a Target.
type Renderer struct {
	target Target
}

func NewRenderer(t Target) *Renderer {
	return &Renderer{target: t}
}

// Draw clears the target and writes one header cell per category followed
// by game.NumQuestionsPerCat rows of len(categories) cells.
//
// Fewer categories simply means fewer columns. A category with fewer clues
// than rows gets an inert empty cell in the missing rows.
func (r *Renderer) Draw(categories []*game.Category) {
	r.target.ClearHeaderCells()
	r.target.ClearBodyCells()

	for _, c := range categories {
		r.target.AppendHeaderCell(c.Title)
	}

	for row := 0; row < game.NumQuestionsPerCat; row++ {
		for _, c := range categories {
			clue := c.ClueAt(row)
			if clue == nil {
				r.target.AppendBodyCell("", nil)
				continue
			}
			r.target.AppendBodyCell(game.Display(clue), bind(clue))
		}
	}
}

// bind ties a cell to its clue by reference.
func bind(c *game.Clue) ClickFunc {
	return func() string { return game.Advance(c) }
}
