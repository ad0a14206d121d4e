package trivia

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/robalobadob/jeopardy/internal/game"
)

// DefaultPoolSize is how many candidate categories are requested per deal.
const DefaultPoolSize = 100

// Selector draws the categories for a deal.
type Selector struct {
	provider Provider
	poolSize int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewSelector returns a Selector over provider. A nil rng is replaced by a
// ChaCha8 generator seeded from crypto/rand.
func NewSelector(provider Provider, poolSize int, rng *rand.Rand) *Selector {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	if rng == nil {
		var seed [32]byte
		_, _ = crand.Read(seed[:])
		rng = rand.New(rand.NewChaCha8(seed))
	}
	return &Selector{provider: provider, poolSize: poolSize, rng: rng}
}

// SelectCategoryIDs requests the candidate pool and returns
// game.NumCategories distinct ids drawn uniformly without replacement.
//
// Fails with game.ErrProviderUnavailable if the pool cannot be fetched or
// holds fewer distinct ids than a board needs. There is no retry.
func (s *Selector) SelectCategoryIDs(ctx context.Context) ([]CategoryID, error) {
	pool, err := s.provider.Categories(ctx, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("fetching category pool: %w", err)
	}

	ids := distinctIDs(pool)
	if len(ids) < game.NumCategories {
		return nil, fmt.Errorf("%w: pool has %d distinct categories, need %d",
			game.ErrProviderUnavailable, len(ids), game.NumCategories)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sample(s.rng, ids, game.NumCategories), nil
}

// distinctIDs keeps the first occurrence of every id, in pool order.
func distinctIDs(pool []CategorySummary) []CategoryID {
	seen := make(map[CategoryID]struct{}, len(pool))
	out := make([]CategoryID, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c.ID)
	}
	return out
}

// sample runs the first n steps of a Fisher–Yates shuffle over a copy of ids.
// Requires n <= len(ids).
func sample(rng *rand.Rand, ids []CategoryID, n int) []CategoryID {
	work := append([]CategoryID(nil), ids...)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n:n]
}
