package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func card(id, frequency string) techcard.TechCard {
	return techcard.TechCard{
		ID:        id,
		Name:      "Уборка " + id,
		Frequency: frequency,
		ObjectID:  "obj1",
		Object:    techcard.Object{ID: "obj1", Name: "Объект 1"},
	}
}

func dates(occs []Occurrence) []time.Time {
	out := make([]time.Time, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Date)
	}
	return out
}

func TestGenerate_Daily(t *testing.T) {
	w := WindowAround(day(2025, 3, 10), 2, 2)
	occs, err := Generate([]techcard.TechCard{card("tc1", "ежедневно")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		day(2025, 3, 8), day(2025, 3, 9), day(2025, 3, 10), day(2025, 3, 11), day(2025, 3, 12),
	}, dates(occs))
	for _, o := range occs {
		assert.Equal(t, "tc1", o.ID.TechCardID)
		assert.True(t, o.ID.Date.Equal(o.Date))
	}
}

func TestGenerate_WeeklyFiresOnMondays(t *testing.T) {
	// 2025-03-03 and 2025-03-10 are Mondays.
	w := Window{Start: day(2025, 3, 3), End: day(2025, 3, 16)}
	occs, err := Generate([]techcard.TechCard{card("tc1", "еженедельно")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2025, 3, 3), day(2025, 3, 10)}, dates(occs))
}

func TestGenerate_MonthlyFiresOnTheFirst(t *testing.T) {
	w := Window{Start: day(2025, 2, 20), End: day(2025, 3, 5)}
	occs, err := Generate([]techcard.TechCard{card("tc1", "раз в месяц")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2025, 3, 1)}, dates(occs))
}

func TestGenerate_QuarterlyFiresOnQuarterStarts(t *testing.T) {
	w := Window{Start: day(2025, 6, 25), End: day(2025, 7, 5)}
	occs, err := Generate([]techcard.TechCard{card("tc1", "ежеквартально")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2025, 7, 1)}, dates(occs))
}

func TestGenerate_YearlyFiresOnJanuaryFirst(t *testing.T) {
	w := Window{Start: day(2024, 12, 30), End: day(2025, 1, 3)}
	occs, err := Generate([]techcard.TechCard{card("tc1", "раз в год")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2025, 1, 1)}, dates(occs))
}

func TestGenerate_CustomPeriodUsesDayOfYear(t *testing.T) {
	// 2025-03-10 is day 69 of the year, divisible by 3.
	w := Window{Start: day(2025, 3, 8), End: day(2025, 3, 12)}
	occs, err := Generate([]techcard.TechCard{card("tc1", "раз в 3 дня")}, w)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2025, 3, 10)}, dates(occs))
}

func TestGenerate_UnknownLabelBehavesLikeDaily(t *testing.T) {
	w := WindowAround(day(2025, 3, 10), 2, 7)

	unknown, err := Generate([]techcard.TechCard{card("tc1", "по ситуации")}, w)
	require.NoError(t, err)
	daily, err := Generate([]techcard.TechCard{card("tc1", "ежедневно")}, w)
	require.NoError(t, err)

	assert.Equal(t, dates(daily), dates(unknown))
	for _, o := range unknown {
		assert.True(t, o.Rule.Fallback)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cards := []techcard.TechCard{
		card("tc1", "ежедневно"),
		card("tc2", "еженедельно"),
		card("tc3", "раз в месяц"),
	}
	w := WindowAround(day(2025, 3, 10), 2, 7)

	a, err := Generate(cards, w)
	require.NoError(t, err)
	b, err := Generate(cards, w)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_RejectsInvertedWindow(t *testing.T) {
	_, err := Generate(nil, Window{Start: day(2025, 3, 10), End: day(2025, 3, 1)})
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	w := WindowAround(day(2025, 3, 10), 2, 7)
	assert.True(t, w.Contains(day(2025, 3, 8)))
	assert.True(t, w.Contains(day(2025, 3, 17)))
	assert.False(t, w.Contains(day(2025, 3, 7)))
	assert.False(t, w.Contains(day(2025, 3, 18)))
}
