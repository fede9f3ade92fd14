package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		scheduled time.Time
		completed bool
		want      Status
	}{
		{"today", today, false, StatusAvailable},
		{"yesterday stays pending", today.AddDate(0, 0, -1), false, StatusPending},
		{"tomorrow", today.AddDate(0, 0, 1), false, StatusPending},
		{"completed past", today.AddDate(0, 0, -3), true, StatusCompleted},
		{"completed today", today, true, StatusCompleted},
		{"same day different hour", time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC), false, StatusAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.scheduled, today, tc.completed))
		})
	}
}
