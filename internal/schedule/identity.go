package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for occurrence dates.
const DateLayout = "2006-01-02"

var ErrInvalidIdentity = errors.New("invalid task identity")

// TaskID identifies one occurrence of a tech card on one calendar date. It is
// the join key between virtual occurrences and materialized records.
type TaskID struct {
	TechCardID string
	Date       time.Time // midnight UTC
}

func NewTaskID(techCardID string, date time.Time) TaskID {
	return TaskID{TechCardID: techCardID, Date: DateOnly(date)}
}

// String renders the wire form "<techCardID>-<YYYY-MM-DD>". The tech card id
// may itself contain '-'; ParseTaskID decodes from the right, anchored on the
// fixed-length date, so the encoding stays injective.
func (id TaskID) String() string {
	return id.TechCardID + "-" + id.Date.Format(DateLayout)
}

// ParseTaskID decodes the wire form back into (techCardID, date).
func ParseTaskID(s string) (TaskID, error) {
	// shortest valid form: one id byte + '-' + 10 date bytes
	if len(s) < len(DateLayout)+2 {
		return TaskID{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}

	sep := len(s) - len(DateLayout) - 1
	if s[sep] != '-' {
		return TaskID{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}

	date, err := time.ParseInLocation(DateLayout, s[sep+1:], time.UTC)
	if err != nil {
		return TaskID{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}

	return TaskID{TechCardID: s[:sep], Date: date}, nil
}

// DateOnly truncates t to midnight UTC, the canonical occurrence date form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
