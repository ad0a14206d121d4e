package trivia

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/jeopardy/internal/game"
)

// DefaultConcurrency bounds the per-category fetches of one deal.
const DefaultConcurrency = game.NumCategories

// Loader fetches the categories chosen by a Selector.
type Loader struct {
	provider    Provider
	concurrency int
}

// NewLoader returns a Loader that runs at most concurrency fetches at once
// (1 fetches strictly one after another).
func NewLoader(provider Provider, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loader{provider: provider, concurrency: concurrency}
}

// LoadCategories fetches every id and returns the categories in the same
// order as ids, whatever order the responses arrive in.
//
// The first failure cancels the remaining fetches and the whole load fails:
// no partial result is ever returned.
func (l *Loader) LoadCategories(ctx context.Context, ids []CategoryID) ([]*game.Category, error) {
	out := make([]*game.Category, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			raw, err := l.provider.Category(gctx, id)
			if err != nil {
				return fmt.Errorf("loading category %s: %w", id, err)
			}
			cat, err := ToCategory(raw)
			if err != nil {
				return fmt.Errorf("loading category %s: %w", id, err)
			}
			out[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ToCategory validates a provider record and normalizes its clues.
// Only the first game.NumQuestionsPerCat clues are kept; surplus clues are
// dropped unchecked. A category with fewer clues is accepted.
func ToCategory(raw *RawCategory) (*game.Category, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty category response", game.ErrMalformedRecord)
	}
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		return nil, fmt.Errorf("%w: category has no title", game.ErrMalformedRecord)
	}
	if raw.Clues == nil {
		return nil, fmt.Errorf("%w: category %q has no clue list", game.ErrMalformedRecord, *raw.Title)
	}

	rawClues := raw.Clues
	if len(rawClues) > game.NumQuestionsPerCat {
		rawClues = rawClues[:game.NumQuestionsPerCat]
	}

	cat := &game.Category{Title: *raw.Title, Clues: make([]*game.Clue, 0, len(rawClues))}
	for i, rc := range rawClues {
		if rc.Question == nil || rc.Answer == nil {
			return nil, fmt.Errorf("%w: category %q clue %d is missing question or answer",
				game.ErrMalformedRecord, *raw.Title, i)
		}
		clue, err := game.NewClue(*rc.Question, *rc.Answer)
		if err != nil {
			return nil, fmt.Errorf("category %q clue %d: %w", *raw.Title, i, err)
		}
		cat.Clues = append(cat.Clues, clue)
	}
	return cat, nil
}
