package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

// reconcileOverdue regenerates the last lookback days of daily-cadence
// occurrences and promotes every one without a materialized record to
// OVERDUE, keeping its original scheduled date. Weekly and coarser cadences
// are deliberately not flagged: what "overdue" means for them is a policy
// question this layer does not decide. Records for the whole look-back range
// are fetched in a single batch call.
func (s *Service) reconcileOverdue(ctx context.Context, cards []techcard.TechCard, today time.Time, scope access.Scope) ([]UnifiedTask, error) {
	if s.opts.OverdueLookback <= 0 {
		return nil, nil
	}

	from := today.AddDate(0, 0, -s.opts.OverdueLookback)
	to := today.AddDate(0, 0, -1)

	var daily []techcard.TechCard
	for _, card := range cards {
		if schedule.ParseFrequency(card.Frequency).Cadence == schedule.CadenceDaily {
			daily = append(daily, card)
		}
	}
	if len(daily) == 0 {
		return nil, nil
	}

	recs, err := s.records.ListRange(ctx, from, to, scope)
	if err != nil {
		return nil, fmt.Errorf("overdue: list records: %w", err)
	}
	recorded := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		recorded[rec.ID.String()] = struct{}{}
	}

	occs, err := schedule.Generate(daily, schedule.Window{Start: from, End: to})
	if err != nil {
		return nil, fmt.Errorf("overdue: %w", err)
	}

	var out []UnifiedTask
	for _, occ := range occs {
		if _, ok := recorded[occ.ID.String()]; ok {
			continue
		}
		out = append(out, newVirtualTask(occ, schedule.StatusOverdue))
	}
	return out, nil
}
