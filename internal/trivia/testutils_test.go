package trivia

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robalobadob/jeopardy/internal/game"
)

// fakeProvider serves canned categories with optional per-id delays and
// failures, and records the order fetches were started in.
type fakeProvider struct {
	pool   []CategorySummary
	cats   map[CategoryID]*RawCategory
	delay  map[CategoryID]time.Duration
	fail   map[CategoryID]error
	poolFn func() error

	mu      sync.Mutex
	fetched []CategoryID
}

func newFakeProvider(n int) *fakeProvider {
	p := &fakeProvider{
		cats:  make(map[CategoryID]*RawCategory),
		delay: make(map[CategoryID]time.Duration),
		fail:  make(map[CategoryID]error),
	}
	for i := 1; i <= n; i++ {
		id := CategoryID(i)
		p.pool = append(p.pool, CategorySummary{ID: id})
		p.cats[id] = rawCategory(fmt.Sprintf("cat-%d", i), 5)
	}
	return p
}

func (p *fakeProvider) Categories(ctx context.Context, count int) ([]CategorySummary, error) {
	if p.poolFn != nil {
		if err := p.poolFn(); err != nil {
			return nil, err
		}
	}
	if count < len(p.pool) {
		return p.pool[:count], nil
	}
	return p.pool, nil
}

func (p *fakeProvider) Category(ctx context.Context, id CategoryID) (*RawCategory, error) {
	p.mu.Lock()
	p.fetched = append(p.fetched, id)
	p.mu.Unlock()

	if d := p.delay[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", game.ErrProviderUnavailable, ctx.Err())
		}
	}
	if err := p.fail[id]; err != nil {
		return nil, err
	}
	c, ok := p.cats[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s not found", game.ErrProviderUnavailable, id)
	}
	return c, nil
}

func strPtr(s string) *string { return &s }

func rawCategory(title string, clues int) *RawCategory {
	c := &RawCategory{Title: strPtr(title), Clues: []RawClue{}}
	for i := 0; i < clues; i++ {
		c.Clues = append(c.Clues, RawClue{
			Question: strPtr(fmt.Sprintf("%s q%d", title, i)),
			Answer:   strPtr(fmt.Sprintf("<i>%s a%d</i>", title, i)),
		})
	}
	return c
}
