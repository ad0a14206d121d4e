// internal/store/memory.go
//
// In-memory GameState: the single source of truth for the dealt board.
//
// Characteristics:
//   - Holds the ordered categories of the current deal plus its cycle id.
//   - Replaced wholesale on every (re)start; there is no partial update API.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"sync"
	"time"

	"github.com/robalobadob/jeopardy/internal/game"
)

// GameState holds the categories currently on the board.
type GameState struct {
	mu         sync.RWMutex     // guards the fields below
	cycleID    string           // id of the deal that produced categories
	dealtAt    time.Time        // when categories were installed
	categories []*game.Category // column order of the board
}

// NewGameState returns an empty GameState (no board dealt yet).
func NewGameState() *GameState {
	return &GameState{}
}

// Replace swaps in a complete new board. The previous categories are
// dropped entirely; the slice header is copied so later changes to the
// caller's slice do not leak in.
func (s *GameState) Replace(cycleID string, categories []*game.Category) {
	cats := append([]*game.Category(nil), categories...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleID = cycleID
	s.dealtAt = time.Now().UTC()
	s.categories = cats
}

// Current returns the categories in column order.
// The returned slice is a copy; the categories and clues are shared.
func (s *GameState) Current() []*game.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*game.Category(nil), s.categories...)
}

// Cycle returns the id of the current deal, or "" before the first deal.
func (s *GameState) Cycle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycleID
}

// DealtAt returns when the current board was installed.
func (s *GameState) DealtAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dealtAt
}
