package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
)

// MemoryStore is an in-memory Store with the same conflict semantics as the
// SQLite one. Used by tests and as a substitutable fake.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]MaterializedRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]MaterializedRecord{}}
}

func (s *MemoryStore) Create(ctx context.Context, rec MaterializedRecord) (MaterializedRecord, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.ID.String()
	if _, exists := s.records[key]; exists {
		return MaterializedRecord{}, ErrAlreadyMaterialized
	}
	s.records[key] = rec
	return rec, nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, id schedule.TaskID) (MaterializedRecord, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id.String()]
	return rec, ok, nil
}

func (s *MemoryStore) ListRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]MaterializedRecord, error) {
	_ = ctx

	fromD, toD := schedule.DateOnly(from), schedule.DateOnly(to)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []MaterializedRecord
	for _, rec := range s.records {
		d := rec.ID.Date
		if d.Before(fromD) || d.After(toD) {
			continue
		}
		if !scope.AllowsObject(rec.ObjectID, rec.ManagerID) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *MemoryStore) ListCompletedRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]MaterializedRecord, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []MaterializedRecord
	for _, rec := range s.records {
		if rec.CompletedAt.IsZero() {
			continue
		}
		if rec.CompletedAt.Before(from) || !rec.CompletedAt.Before(to) {
			continue
		}
		if !scope.AllowsObject(rec.ObjectID, rec.ManagerID) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}
