package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.SeedDemo(context.Background()))
	return s
}

func TestStore_OpenAndMigrateTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cleaning.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SeedDemo(context.Background()))
	require.NoError(t, s.Close())

	// reopen: migration must be a no-op and data must survive
	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	cards, err := s.List(context.Background(), access.Admin(""))
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}

func TestStore_SeedDemoIdempotent(t *testing.T) {
	s := newSeededStore(t)
	require.NoError(t, s.SeedDemo(context.Background()))

	cards, err := s.List(context.Background(), access.Admin(""))
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}

func TestStore_ListScoped(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	mine, err := s.List(ctx, access.Manager("u_ivanova"))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "tc_lobby_clean", mine[0].ID)
	assert.Equal(t, "tc_windows", mine[1].ID)

	deputy, err := s.List(ctx, access.Deputy("u_x", []string{"obj_plant"}))
	require.NoError(t, err)
	require.Len(t, deputy, 2)

	none, err := s.List(ctx, access.Deputy("u_x", nil))
	require.NoError(t, err)
	assert.Empty(t, none)

	filtered, err := s.List(ctx, access.Admin("obj_office"))
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestStore_GetTechCard(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	c, err := s.Get(ctx, "tc_lobby_clean")
	require.NoError(t, err)
	assert.Equal(t, "Влажная уборка холла", c.Name)
	assert.Equal(t, "ежедневно", c.Frequency)
	require.NotNil(t, c.Object.Manager)
	assert.Equal(t, "Иванова А.П.", c.Object.Manager.Name)
	require.NotNil(t, c.Room)
	assert.Equal(t, "Холл 1 этажа", c.Room.Name)

	c, err = s.Get(ctx, "tc_windows")
	require.NoError(t, err)
	assert.Nil(t, c.Room)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, techcard.ErrNotFound)
}

func TestStore_CreateRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	completedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	rec := record.MaterializedRecord{
		ID:              schedule.NewTaskID("tc_lobby_clean", completedAt),
		Description:     "Влажная уборка холла",
		Status:          record.StatusCompleted,
		ObjectID:        "obj_office",
		ObjectName:      "Бизнес-центр «Восток»",
		ManagerID:       "u_ivanova",
		ManagerName:     "Иванова А.П.",
		RoomID:          "room_lobby",
		RoomName:        "Холл 1 этажа",
		Frequency:       "ежедневно",
		CompletedAt:     completedAt,
		CompletedByID:   "u_ivanova",
		CompletedByName: "Иванова А.П.",
		Comment:         "всё чисто",
		Photos:          []string{"photos/1.jpg", "photos/2.jpg"},
	}

	_, err := s.Create(ctx, rec)
	require.NoError(t, err)

	got, ok, err := s.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.Photos, got.Photos)
	assert.True(t, got.CompletedAt.Equal(completedAt))
	assert.Equal(t, "всё чисто", got.Comment)

	_, ok, err = s.GetRecord(ctx, schedule.NewTaskID("tc_lobby_clean", completedAt.AddDate(0, 0, 1)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CreateRecordConflict(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	rec := record.MaterializedRecord{
		ID:       schedule.NewTaskID("tc_lobby_clean", date),
		Status:   record.StatusCompleted,
		ObjectID: "obj_office",
	}
	_, err := s.Create(ctx, rec)
	require.NoError(t, err)

	_, err = s.Create(ctx, rec)
	assert.ErrorIs(t, err, record.ErrAlreadyMaterialized)
}

func TestStore_CreateRecordConcurrent(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, record.MaterializedRecord{
				ID:       schedule.NewTaskID("tc_shop_sweep", date),
				Status:   record.StatusCompleted,
				ObjectID: "obj_plant",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, record.ErrAlreadyMaterialized)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestStore_ListCompletedRange(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	// scheduled March 7, completed during March 10
	_, err := s.Create(ctx, record.MaterializedRecord{
		ID:          schedule.NewTaskID("tc_lobby_clean", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)),
		Status:      record.StatusCompleted,
		ObjectID:    "obj_office",
		ManagerID:   "u_ivanova",
		CompletedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// completed outside the queried day
	_, err = s.Create(ctx, record.MaterializedRecord{
		ID:          schedule.NewTaskID("tc_lobby_clean", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)),
		Status:      record.StatusCompleted,
		ObjectID:    "obj_office",
		ManagerID:   "u_ivanova",
		CompletedAt: time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// failed record, empty completed_at
	_, err = s.Create(ctx, record.MaterializedRecord{
		ID:        schedule.NewTaskID("tc_shop_sweep", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		Status:    record.StatusFailed,
		ObjectID:  "obj_plant",
		ManagerID: "u_petrov",
	})
	require.NoError(t, err)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	recs, err := s.ListCompletedRange(ctx, from, to, access.Admin(""))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "tc_lobby_clean-2025-03-07", recs[0].ID.String())

	mine, err := s.ListCompletedRange(ctx, from, to, access.Manager("u_ivanova"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := s.ListCompletedRange(ctx, from, to, access.Manager("u_petrov"))
	require.NoError(t, err)
	assert.Empty(t, other)

	none, err := s.ListCompletedRange(ctx, from, to, access.Deputy("u_x", nil))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_ListRangeScoped(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	for d := 8; d <= 12; d++ {
		date := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
		_, err := s.Create(ctx, record.MaterializedRecord{
			ID:        schedule.NewTaskID("tc_lobby_clean", date),
			Status:    record.StatusCompleted,
			ObjectID:  "obj_office",
			ManagerID: "u_ivanova",
		})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, record.MaterializedRecord{
		ID:        schedule.NewTaskID("tc_shop_sweep", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		Status:    record.StatusFailed,
		ObjectID:  "obj_plant",
		ManagerID: "u_petrov",
	})
	require.NoError(t, err)

	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	all, err := s.ListRange(ctx, from, to, access.Admin(""))
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := s.ListRange(ctx, from, to, access.Manager("u_petrov"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, record.StatusFailed, mine[0].Status)

	deputy, err := s.ListRange(ctx, from, to, access.Deputy("u_x", []string{"obj_office"}))
	require.NoError(t, err)
	assert.Len(t, deputy, 3)

	none, err := s.ListRange(ctx, from, to, access.Deputy("u_x", nil))
	require.NoError(t, err)
	assert.Empty(t, none)
}
