// internal/controller/controller.go
//
// GameController: runs deal cycles and routes clicks.
//
// A cycle is select → load → replace → draw. The network work runs without
// holding any lock, so the current board stays playable while a restart is
// fetching. Only once every category has arrived does the controller take the
// write lock, replace GameState and redraw the target in one step, so readers
// never see a board that mixes two cycles and a failed cycle changes nothing.

package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/board"
	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/history"
	"github.com/robalobadob/jeopardy/internal/metrics"
	"github.com/robalobadob/jeopardy/internal/store"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// CategorySelector picks the category ids for a deal.
type CategorySelector interface {
	SelectCategoryIDs(ctx context.Context) ([]trivia.CategoryID, error)
}

// CategoryLoader fetches categories in the order of ids.
type CategoryLoader interface {
	LoadCategories(ctx context.Context, ids []trivia.CategoryID) ([]*game.Category, error)
}

// Recorder receives every successfully dealt board.
type Recorder interface {
	Record(ctx context.Context, d history.Deal) error
}

// Options wires a Controller. Selector and Loader are required.
type Options struct {
	Selector CategorySelector
	Loader   CategoryLoader
	State    *store.GameState // defaults to a fresh empty state
	Table    *board.Table     // defaults to a fresh empty table
	Recorder Recorder         // optional
	Metrics  *metrics.Metrics // optional
}

// Cell is one body cell of a View. State is empty for padding cells.
type Cell struct {
	Text      string `json:"text"`
	State     string `json:"state,omitempty"`
	Clickable bool   `json:"clickable"`
}

// View is a consistent copy of the board for display.
type View struct {
	CycleID string    `json:"cycleId"`
	DealtAt time.Time `json:"dealtAt"`
	Titles  []string  `json:"titles"`
	Rows    [][]Cell  `json:"rows"`
}

type Controller struct {
	selector CategorySelector
	loader   CategoryLoader
	recorder Recorder
	metrics  *metrics.Metrics

	busy atomic.Bool // set while a cycle is fetching

	mu       sync.RWMutex // guards state+table as one unit
	state    *store.GameState
	table    *board.Table
	renderer *board.Renderer
}

func New(opts Options) *Controller {
	if opts.State == nil {
		opts.State = store.NewGameState()
	}
	if opts.Table == nil {
		opts.Table = board.NewTable()
	}
	return &Controller{
		selector: opts.Selector,
		loader:   opts.Loader,
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		state:    opts.State,
		table:    opts.Table,
		renderer: board.NewRenderer(opts.Table),
	}
}

// Start deals the first board.
func (c *Controller) Start(ctx context.Context) error {
	return c.cycle(ctx, "start")
}

// Restart deals a fresh board, discarding the current one. If fetching
// fails, the current board is kept as it is.
func (c *Controller) Restart(ctx context.Context) error {
	return c.cycle(ctx, "restart")
}

// cycle runs one select → load → replace → draw pass.
// A second call while one is fetching returns game.ErrCycleInProgress.
func (c *Controller) cycle(ctx context.Context, kind string) error {
	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.ObserveCycle(metrics.OutcomeBusy, 0)
		return game.ErrCycleInProgress
	}
	defer c.busy.Store(false)

	start := time.Now()
	cycleID := uuid.NewString()
	logger := log.With().Str("cycle", cycleID).Str("kind", kind).Logger()

	ids, err := c.selector.SelectCategoryIDs(ctx)
	if err != nil {
		c.metrics.ObserveCycle(metrics.OutcomeError, time.Since(start))
		logger.Warn().Err(err).Msg("select categories")
		return fmt.Errorf("%s: %w", kind, err)
	}

	cats, err := c.loader.LoadCategories(ctx, ids)
	if err != nil {
		c.metrics.ObserveCycle(metrics.OutcomeError, time.Since(start))
		logger.Warn().Err(err).Msg("load categories")
		return fmt.Errorf("%s: %w", kind, err)
	}

	c.mu.Lock()
	c.state.Replace(cycleID, cats)
	c.renderer.Draw(c.state.Current())
	dealtAt := c.state.DealtAt()
	c.mu.Unlock()

	c.metrics.ObserveCycle(metrics.OutcomeOK, time.Since(start))
	logger.Info().Int("categories", len(cats)).Dur("took", time.Since(start)).Msg("board dealt")

	if c.recorder != nil {
		titles := make([]string, 0, len(cats))
		for _, cat := range cats {
			titles = append(titles, cat.Title)
		}
		if err := c.recorder.Record(ctx, history.Deal{CycleID: cycleID, DealtAt: dealtAt, Titles: titles}); err != nil {
			logger.Warn().Err(err).Msg("record deal")
		}
	}
	return nil
}

// Busy reports whether a cycle is currently fetching.
func (c *Controller) Busy() bool { return c.busy.Load() }

// Reveal advances the clue at [row][col] of the board dealt by cycleID and
// returns the cell's new text and the clue's new state.
func (c *Controller) Reveal(ctx context.Context, cycleID string, row, col int) (string, game.RevealState, error) {
	if err := ctx.Err(); err != nil {
		return "", game.Hidden, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if current := c.state.Cycle(); current == "" || current != cycleID {
		return "", game.Hidden, fmt.Errorf("%w: cycle %q", game.ErrStaleCycle, cycleID)
	}

	text, err := c.table.Click(row, col)
	if err != nil {
		return "", game.Hidden, err
	}

	// The click succeeded, so the column and row exist.
	state := c.state.Current()[col].ClueAt(row).Showing
	c.metrics.IncReveal(state.String())
	log.Debug().Str("cycle", cycleID).Int("row", row).Int("col", col).Stringer("state", state).Msg("reveal")
	return text, state, nil
}

// View returns the board as currently displayed.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.table.Snapshot()
	cats := c.state.Current()
	v := View{
		CycleID: c.state.Cycle(),
		DealtAt: c.state.DealtAt(),
		Titles:  snap.Header,
		Rows:    make([][]Cell, 0, len(snap.Rows)),
	}
	for r, row := range snap.Rows {
		cells := make([]Cell, 0, len(row))
		for col, cv := range row {
			cell := Cell{Text: cv.Text, Clickable: cv.Clickable}
			if col < len(cats) {
				if clue := cats[col].ClueAt(r); clue != nil {
					cell.State = clue.Showing.String()
				}
			}
			cells = append(cells, cell)
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}

// RevealAll clicks every clue of the board dealt by cycleID once, in
// row-major order, and returns how many cells advanced.
func (c *Controller) RevealAll(ctx context.Context, cycleID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if current := c.state.Cycle(); current == "" || current != cycleID {
		return 0, fmt.Errorf("%w: cycle %q", game.ErrStaleCycle, cycleID)
	}

	n := 0
	for row, cells := range c.table.Snapshot().Rows {
		for col, cell := range cells {
			if !cell.Clickable {
				continue
			}
			if _, err := c.table.Click(row, col); err != nil {
				return n, err
			}
			c.metrics.IncReveal(c.state.Current()[col].ClueAt(row).Showing.String())
			n++
		}
	}
	return n, nil
}
