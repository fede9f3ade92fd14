package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

var ErrInvalidStatus = errors.New("invalid completion status")

// Options bound the generation window and the overdue look-back.
type Options struct {
	WindowBack      int
	WindowForward   int
	OverdueLookback int

	// Location attributes completion timestamps to calendar days and
	// supplies "today" when no reference date is given.
	Location *time.Location
}

func (o *Options) applyDefaults() {
	if o.WindowBack <= 0 {
		o.WindowBack = 2
	}
	if o.WindowForward <= 0 {
		o.WindowForward = 7
	}
	if o.OverdueLookback <= 0 {
		o.OverdueLookback = 7
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
}

// QueryStats carries per-stage counts for one calendar query. They are logged
// and assertable in tests.
type QueryStats struct {
	Definitions  int
	Virtual      int
	Materialized int
	Overdue      int
	Unified      int
	BadLabels    int
}

// Service is the calendar query façade: it turns tech card definitions plus
// the materialization store into one classified, aggregated day view, and
// owns the materialize operation.
type Service struct {
	cards   techcard.Repo
	records record.Store
	clock   Clock
	log     *slog.Logger
	opts    Options
}

func NewService(cards techcard.Repo, records record.Store, clock Clock, logger *slog.Logger, opts Options) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts.applyDefaults()
	return &Service{cards: cards, records: records, clock: clock, log: logger, opts: opts}
}

// Today is the current calendar date in the service's location.
func (s *Service) Today() time.Time {
	return schedule.DateOnly(s.clock.Now().In(s.opts.Location))
}

// Query builds the calendar view for one day. The reference date doubles as
// "today" for classification, so results are a pure function of (date, scope,
// store contents).
func (s *Service) Query(ctx context.Context, date time.Time, scope access.Scope) (*CalendarResponse, error) {
	resp, _, err := s.query(ctx, date, scope)
	return resp, err
}

func (s *Service) query(ctx context.Context, date time.Time, scope access.Scope) (*CalendarResponse, QueryStats, error) {
	var stats QueryStats
	today := schedule.DateOnly(date)

	cards, err := s.cards.List(ctx, scope)
	if err != nil {
		return nil, stats, fmt.Errorf("list definitions: %w", err)
	}
	stats.Definitions = len(cards)

	window := schedule.WindowAround(today, s.opts.WindowBack, s.opts.WindowForward)
	occs, err := schedule.Generate(cards, window)
	if err != nil {
		return nil, stats, err
	}

	badLabels := map[string]struct{}{}
	virtual := make([]UnifiedTask, 0, len(occs))
	for _, occ := range occs {
		if occ.Rule.Fallback {
			if _, logged := badLabels[occ.Card.ID]; !logged {
				badLabels[occ.Card.ID] = struct{}{}
				s.log.WarnContext(ctx, "unparsable frequency label, defaulting to daily",
					"tech_card_id", occ.Card.ID, "label", occ.Card.Frequency)
			}
		}
		virtual = append(virtual, newVirtualTask(occ, schedule.Classify(occ.Date, today, false)))
	}
	stats.Virtual = len(virtual)
	stats.BadLabels = len(badLabels)

	recs, err := s.records.ListRange(ctx, today, today, scope)
	if err != nil {
		return nil, stats, fmt.Errorf("list records: %w", err)
	}

	// Records completed during this calendar day also belong to the view,
	// whatever day they were scheduled for: closing Monday's task on Wednesday
	// must show up in Wednesday's completed list.
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.opts.Location)
	doneToday, err := s.records.ListCompletedRange(ctx, dayStart, dayStart.AddDate(0, 0, 1), scope)
	if err != nil {
		return nil, stats, fmt.Errorf("list completions: %w", err)
	}

	seen := make(map[string]struct{}, len(recs))
	materialized := make([]UnifiedTask, 0, len(recs)+len(doneToday))
	for _, rec := range recs {
		seen[rec.ID.String()] = struct{}{}
		materialized = append(materialized, materializedTask(rec))
	}
	for _, rec := range doneToday {
		if _, dup := seen[rec.ID.String()]; dup {
			continue
		}
		materialized = append(materialized, materializedTask(rec))
	}
	stats.Materialized = len(materialized)

	overdue, err := s.reconcileOverdue(ctx, cards, today, scope)
	if err != nil {
		return nil, stats, err
	}
	stats.Overdue = len(overdue)

	unified := unify(virtual, overdue, materialized)
	stats.Unified = len(unified)

	resp := s.bucket(unified, today)
	resp.ByManager = groupByManager(unified)
	resp.ByObject = groupByObject(unified)

	s.log.InfoContext(ctx, "calendar query",
		"date", today.Format(schedule.DateLayout),
		"role", string(scope.Role),
		"definitions", stats.Definitions,
		"virtual", stats.Virtual,
		"materialized", stats.Materialized,
		"overdue", stats.Overdue,
		"unified", stats.Unified,
	)
	return resp, stats, nil
}

// bucket splits the unified stream into the four status buckets of the day
// view. Completed tasks belong to the day they were completed on, not the day
// they were scheduled for.
func (s *Service) bucket(tasks []UnifiedTask, today time.Time) *CalendarResponse {
	resp := &CalendarResponse{
		Overdue:   []UnifiedTask{},
		Today:     []UnifiedTask{},
		Upcoming:  []UnifiedTask{},
		Completed: []UnifiedTask{},
		Total:     len(tasks),
	}

	for _, t := range tasks {
		day := schedule.DateOnly(t.ScheduledDate)
		switch t.Status {
		case schedule.StatusOverdue:
			resp.Overdue = append(resp.Overdue, t)
		case schedule.StatusAvailable:
			if day.Equal(today) {
				resp.Today = append(resp.Today, t)
			}
		case schedule.StatusPending:
			if day.After(today) {
				resp.Upcoming = append(resp.Upcoming, t)
			}
		case schedule.StatusCompleted:
			if t.CompletedAt != nil && schedule.DateOnly(t.CompletedAt.In(s.opts.Location)).Equal(today) {
				resp.Completed = append(resp.Completed, t)
			}
		}
	}

	byDate := func(ts []UnifiedTask) {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].ScheduledDate.Before(ts[j].ScheduledDate) })
	}
	byDate(resp.Overdue)
	byDate(resp.Today)
	byDate(resp.Upcoming)
	sort.SliceStable(resp.Completed, func(i, j int) bool {
		return resp.Completed[i].CompletedAt.After(*resp.Completed[j].CompletedAt)
	})
	return resp
}

// CompleteRequest materializes one occurrence.
type CompleteRequest struct {
	ID      string
	Status  record.CompletionStatus
	Comment string
	Photos  []string

	UserID   string
	UserName string
}

// Complete materializes the occurrence named by req.ID: it snapshots the tech
// card's current placement into a record and persists it exactly once. A
// repeat or concurrent attempt surfaces record.ErrAlreadyMaterialized.
func (s *Service) Complete(ctx context.Context, req CompleteRequest, scope access.Scope) (*UnifiedTask, error) {
	id, err := schedule.ParseTaskID(req.ID)
	if err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	card, err := s.cards.Get(ctx, id.TechCardID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsObject(card.ObjectID, card.ManagerID()) {
		return nil, access.ErrDenied
	}

	rec := record.MaterializedRecord{
		ID:          id,
		Description: card.Name,
		Status:      req.Status,
		ObjectID:    card.ObjectID,
		ObjectName:  card.Object.Name,
		Frequency:   card.Frequency,
		Comment:     req.Comment,
		Photos:      req.Photos,
	}
	if m := card.Object.Manager; m != nil {
		rec.ManagerID = m.ID
		rec.ManagerName = m.Name
	}
	if card.Room != nil {
		rec.RoomID = card.Room.ID
		rec.RoomName = card.Room.Name
	}
	if req.Status == record.StatusCompleted {
		rec.CompletedAt = s.clock.Now().UTC()
		rec.CompletedByID = req.UserID
		rec.CompletedByName = req.UserName
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "occurrence materialized",
		"id", created.ID.String(),
		"status", string(created.Status),
		"user_id", req.UserID,
	)

	t := materializedTask(created)
	return &t, nil
}
