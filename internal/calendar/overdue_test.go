package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

func TestReconcileOverdue_FlagsMissedDailyOccurrences(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	cards := fixtureCards()[:1] // tc_daily only
	out, err := svc.reconcileOverdue(ctx, cards, testToday, access.Admin(""))
	require.NoError(t, err)

	require.Len(t, out, 7)
	assert.Equal(t, "tc_daily-2025-03-03", out[0].ID)
	assert.Equal(t, "tc_daily-2025-03-09", out[6].ID)
	for _, tsk := range out {
		assert.Equal(t, schedule.StatusOverdue, tsk.Status)
		assert.True(t, tsk.ScheduledDate.Before(testToday), "overdue keeps its original date")
	}
}

func TestReconcileOverdue_SkipsRecordedDays(t *testing.T) {
	ctx := context.Background()
	svc, records, _ := newTestService(t, nil)

	for _, d := range []int{5, 7} {
		_, err := records.Create(ctx, record.MaterializedRecord{
			ID:       schedule.NewTaskID("tc_daily", time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)),
			Status:   record.StatusCompleted,
			ObjectID: "obj1",
		})
		require.NoError(t, err)
	}

	out, err := svc.reconcileOverdue(ctx, fixtureCards()[:1], testToday, access.Admin(""))
	require.NoError(t, err)

	assert.Len(t, out, 5)
	assert.NotContains(t, taskIDs(out), "tc_daily-2025-03-05")
	assert.NotContains(t, taskIDs(out), "tc_daily-2025-03-07")
}

func TestReconcileOverdue_FailedRecordCountsAsRecorded(t *testing.T) {
	ctx := context.Background()
	svc, records, _ := newTestService(t, nil)

	_, err := records.Create(ctx, record.MaterializedRecord{
		ID:       schedule.NewTaskID("tc_daily", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)),
		Status:   record.StatusFailed,
		ObjectID: "obj1",
	})
	require.NoError(t, err)

	out, err := svc.reconcileOverdue(ctx, fixtureCards()[:1], testToday, access.Admin(""))
	require.NoError(t, err)
	assert.NotContains(t, taskIDs(out), "tc_daily-2025-03-06")
}

func TestReconcileOverdue_IgnoresCoarserCadences(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	cards := []techcard.TechCard{
		{
			ID: "tc_week", Name: "Еженедельная уборка", Frequency: "еженедельно",
			ObjectID: "obj1", Object: techcard.Object{ID: "obj1", Name: "БЦ Восток"},
		},
		{
			ID: "tc_month", Name: "Мытьё окон", Frequency: "раз в месяц",
			ObjectID: "obj1", Object: techcard.Object{ID: "obj1", Name: "БЦ Восток"},
		},
	}

	out, err := svc.reconcileOverdue(ctx, cards, testToday, access.Admin(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReconcileOverdue_DisabledByZeroLookback(t *testing.T) {
	repo := techcard.NewMemoryRepo()
	records := record.NewMemoryStore()
	svc := NewService(repo, records, NewFakeClock(testToday), discardLogger(), Options{OverdueLookback: -1})
	// applyDefaults normalizes non-positive values, so force it after construction
	svc.opts.OverdueLookback = 0

	out, err := svc.reconcileOverdue(context.Background(), fixtureCards(), testToday, access.Admin(""))
	require.NoError(t, err)
	assert.Nil(t, out)
}
