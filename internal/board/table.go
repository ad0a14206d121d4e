package board

import (
	"fmt"

	"github.com/robalobadob/jeopardy/internal/game"
)

// CellView is the visible part of a body cell.
type CellView struct {
	Text      string `json:"text"`
	Clickable bool   `json:"clickable"`
}

// TableView is a point-in-time copy of a Table.
type TableView struct {
	Header []string     `json:"titles"`
	Rows   [][]CellView `json:"rows"`
}

type cell struct {
	text    string
	onClick ClickFunc
}

// Table is the in-memory Target behind the web board.
// Body cells wrap into rows by the number of header cells.
//
// Table is not safe for concurrent use; the controller serializes access.
type Table struct {
	header []string
	cells  []*cell
}

func NewTable() *Table { return &Table{} }

func (t *Table) AppendHeaderCell(text string) {
	t.header = append(t.header, text)
}

func (t *Table) AppendBodyCell(initialText string, onClick ClickFunc) {
	t.cells = append(t.cells, &cell{text: initialText, onClick: onClick})
}

func (t *Table) ClearHeaderCells() { t.header = nil }

func (t *Table) ClearBodyCells() { t.cells = nil }

// Columns returns the grid width.
func (t *Table) Columns() int { return len(t.header) }

// Click runs the handler bound to [row][col] and stores its result as the
// cell's text. Only that cell changes.
func (t *Table) Click(row, col int) (string, error) {
	c := t.at(row, col)
	if c == nil || c.onClick == nil {
		return "", fmt.Errorf("%w: row %d col %d", game.ErrNoCell, row, col)
	}
	c.text = c.onClick()
	return c.text, nil
}

// Text returns the current text of [row][col].
func (t *Table) Text(row, col int) (string, bool) {
	c := t.at(row, col)
	if c == nil {
		return "", false
	}
	return c.text, true
}

func (t *Table) at(row, col int) *cell {
	cols := t.Columns()
	if cols == 0 || row < 0 || col < 0 || col >= cols {
		return nil
	}
	i := row*cols + col
	if i >= len(t.cells) {
		return nil
	}
	return t.cells[i]
}

// Snapshot copies the header and body into a TableView.
func (t *Table) Snapshot() TableView {
	v := TableView{Header: append([]string{}, t.header...), Rows: [][]CellView{}}
	cols := t.Columns()
	if cols == 0 {
		return v
	}
	for start := 0; start < len(t.cells); start += cols {
		end := min(start+cols, len(t.cells))
		row := make([]CellView, 0, cols)
		for _, c := range t.cells[start:end] {
			row = append(row, CellView{Text: c.text, Clickable: c.onClick != nil})
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
