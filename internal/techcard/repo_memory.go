package techcard

import (
	"context"
	"sort"
	"sync"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
)

// MemoryRepo is an in-memory Repo for tests and dev seeding.
type MemoryRepo struct {
	mu    sync.RWMutex
	cards map[string]TechCard
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cards: map[string]TechCard{}}
}

func (r *MemoryRepo) Seed(cards []TechCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cards {
		r.cards[c.ID] = c
	}
}

func (r *MemoryRepo) List(ctx context.Context, scope access.Scope) ([]TechCard, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TechCard, 0, len(r.cards))
	for _, c := range r.cards {
		if scope.AllowsObject(c.ObjectID, c.ManagerID()) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (TechCard, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cards[id]
	if !ok {
		return TechCard{}, ErrNotFound
	}
	return c, nil
}
