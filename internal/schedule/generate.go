package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

// Window is an inclusive range of calendar dates (midnight UTC).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowAround builds the rolling generation window around a reference date:
// `back` days behind, `forward` days ahead.
func WindowAround(ref time.Time, back, forward int) Window {
	d := DateOnly(ref)
	return Window{Start: d.AddDate(0, 0, -back), End: d.AddDate(0, 0, forward)}
}

func (w Window) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Occurrence is a virtual, not-yet-persisted instance of a tech card on a
// specific date.
type Occurrence struct {
	ID   TaskID
	Card techcard.TechCard
	Rule Rule
	Date time.Time
}

// Generate expands every card's recurrence rule over the window. It is
// deterministic for fixed inputs and recomputed on every query; nothing is
// cached across calls. Expansion cost is shared between cards with the same
// period, so the loop stays O(window × cards).
func Generate(cards []techcard.TechCard, w Window) ([]Occurrence, error) {
	if w.End.Before(w.Start) {
		return nil, fmt.Errorf("generate: window end %s before start %s",
			w.End.Format(DateLayout), w.Start.Format(DateLayout))
	}

	datesByPeriod := make(map[int][]time.Time)

	var out []Occurrence
	for _, card := range cards {
		rule := ParseFrequency(card.Frequency)

		dates, ok := datesByPeriod[rule.PeriodDays]
		if !ok {
			var err error
			dates, err = expand(rule, w)
			if err != nil {
				return nil, err
			}
			datesByPeriod[rule.PeriodDays] = dates
		}

		for _, date := range dates {
			out = append(out, Occurrence{
				ID:   NewTaskID(card.ID, date),
				Card: card,
				Rule: rule,
				Date: date,
			})
		}
	}
	return out, nil
}

// expand lists the dates within w on which the rule fires. The five standard
// cadences are expressed as RRULEs; their anchors (Monday, day-of-month 1,
// first month of each quarter, January 1) do not depend on the window start.
func expand(rule Rule, w Window) ([]time.Time, error) {
	opt := rrule.ROption{Dtstart: w.Start, Until: w.End}

	switch rule.Cadence {
	case CadenceDaily:
		opt.Freq = rrule.DAILY
	case CadenceWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO}
	case CadenceMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{1}
	case CadenceQuarterly:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = []int{1, 4, 7, 10}
		opt.Bymonthday = []int{1}
	case CadenceYearly:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = []int{1}
		opt.Bymonthday = []int{1}
	default:
		return expandCustom(rule.PeriodDays, w), nil
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", rule.Cadence, err)
	}

	dates := r.All()
	for i := range dates {
		dates[i] = DateOnly(dates[i])
	}
	return dates, nil
}

// expandCustom fires when the day of year is a multiple of the period. This
// is a known approximation: the phase resets at year boundaries, so non-divisor
// periods drift across years. Exact recurrence would need a per-card
// "last occurrence" anchor instead.
func expandCustom(periodDays int, w Window) []time.Time {
	if periodDays <= 0 {
		return nil
	}
	var dates []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if d.YearDay()%periodDays == 0 {
			dates = append(dates, d)
		}
	}
	return dates
}
