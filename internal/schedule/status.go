package schedule

import "time"

// Status is the classification of one occurrence relative to a reference day.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAvailable  Status = "AVAILABLE"
	StatusOverdue    Status = "OVERDUE"
	StatusCompleted  Status = "COMPLETED"
	StatusInProgress Status = "IN_PROGRESS"

	// StatusFailed is carried by materialized records whose occurrence was
	// closed without completion. Classify never produces it.
	StatusFailed Status = "FAILED"
)

// Classify assigns the base status of an occurrence. A past, unrecorded
// occurrence stays PENDING here: promotion to OVERDUE is cadence-aware and
// happens in the overdue reconciler, not per occurrence.
func Classify(scheduled, today time.Time, completed bool) Status {
	if completed {
		return StatusCompleted
	}
	if DateOnly(scheduled).Equal(DateOnly(today)) {
		return StatusAvailable
	}
	return StatusPending
}
