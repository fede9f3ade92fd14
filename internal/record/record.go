package record

import (
	"context"
	"errors"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
)

var (
	ErrAlreadyMaterialized = errors.New("occurrence already materialized")
	ErrNotFound            = errors.New("materialized record not found")
)

// CompletionStatus is the terminal outcome of an occurrence.
type CompletionStatus string

const (
	StatusCompleted CompletionStatus = "COMPLETED"
	StatusFailed    CompletionStatus = "FAILED"
)

func (s CompletionStatus) Valid() bool {
	return s == StatusCompleted || s == StatusFailed
}

// MaterializedRecord is the persisted outcome of one occurrence. Object, room
// and frequency are snapshotted at materialization time so later edits to the
// tech card do not rewrite history. Records are immutable once created.
type MaterializedRecord struct {
	ID          schedule.TaskID
	Description string
	Status      CompletionStatus

	// Snapshots of the tech card's placement at materialization time.
	ObjectID    string
	ObjectName  string
	ManagerID   string
	ManagerName string
	RoomID      string
	RoomName    string
	Frequency   string

	CompletedAt     time.Time
	CompletedByID   string
	CompletedByName string
	Comment         string
	Photos          []string
}

// Store persists materialized records. Create must be atomic insert-if-absent
// on the record identity: a second create for the same (tech card, date)
// returns ErrAlreadyMaterialized instead of overwriting completion evidence.
type Store interface {
	Create(ctx context.Context, rec MaterializedRecord) (MaterializedRecord, error)

	// GetRecord answers "was this occurrence already materialized?".
	GetRecord(ctx context.Context, id schedule.TaskID) (MaterializedRecord, bool, error)

	// ListRange returns all records with scheduled dates in [from, to]
	// (inclusive, date granularity) visible under the scope. Callers batch
	// whole look-back windows through one call.
	ListRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]MaterializedRecord, error)

	// ListCompletedRange returns records whose completion instant falls in
	// [from, to), regardless of scheduled date. A task closed days after its
	// scheduled date belongs to the calendar day it was completed on.
	ListCompletedRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]MaterializedRecord, error)
}
