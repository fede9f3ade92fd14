package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
)

const recordColumns = `
	id, tech_card_id, scheduled_date, description, status,
	object_id, object_name, manager_id, manager_name, room_id, room_name, frequency,
	completed_at, completed_by_id, completed_by_name, comment, photos`

// Create inserts a record if and only if its occurrence has no record yet.
// The unique key on (tech_card_id, scheduled_date) makes this atomic: a
// concurrent duplicate resolves to record.ErrAlreadyMaterialized, never to a
// silent overwrite.
func (s *Store) Create(ctx context.Context, rec record.MaterializedRecord) (record.MaterializedRecord, error) {
	photos, err := json.Marshal(emptyIfNil(rec.Photos))
	if err != nil {
		return record.MaterializedRecord{}, fmt.Errorf("encode photos: %w", err)
	}

	completedAt := ""
	if !rec.CompletedAt.IsZero() {
		completedAt = rec.CompletedAt.UTC().Format(time.RFC3339)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_records (`+strings.TrimSpace(recordColumns)+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.ID.TechCardID, rec.ID.Date.Format(schedule.DateLayout),
		rec.Description, string(rec.Status),
		rec.ObjectID, rec.ObjectName, rec.ManagerID, rec.ManagerName, rec.RoomID, rec.RoomName, rec.Frequency,
		completedAt, rec.CompletedByID, rec.CompletedByName, rec.Comment, string(photos),
	)
	if err != nil {
		return record.MaterializedRecord{}, fmt.Errorf("insert record %s: %w", rec.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return record.MaterializedRecord{}, err
	}
	if affected == 0 {
		return record.MaterializedRecord{}, record.ErrAlreadyMaterialized
	}
	return rec, nil
}

func (s *Store) GetRecord(ctx context.Context, id schedule.TaskID) (record.MaterializedRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM task_records WHERE id = ?`, id.String())

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.MaterializedRecord{}, false, nil
	}
	if err != nil {
		return record.MaterializedRecord{}, false, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, true, nil
}

// ListRange returns records scheduled within [from, to], scope-filtered on
// the object/manager ids snapshotted at materialization time.
func (s *Store) ListRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]record.MaterializedRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM task_records WHERE scheduled_date >= ? AND scheduled_date <= ?`
	args := []any{
		schedule.DateOnly(from).Format(schedule.DateLayout),
		schedule.DateOnly(to).Format(schedule.DateLayout),
	}

	clause, scopeArgs, visible := recordScopeClause(scope)
	if !visible {
		return nil, nil
	}
	query += clause + " ORDER BY id"
	args = append(args, scopeArgs...)

	return s.queryRecords(ctx, query, args...)
}

// ListCompletedRange returns records completed within [from, to), whatever
// their scheduled date. completed_at is stored as RFC3339 UTC, so string
// comparison orders chronologically.
func (s *Store) ListCompletedRange(ctx context.Context, from, to time.Time, scope access.Scope) ([]record.MaterializedRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM task_records WHERE completed_at >= ? AND completed_at < ?`
	args := []any{
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	}

	clause, scopeArgs, visible := recordScopeClause(scope)
	if !visible {
		return nil, nil
	}
	query += clause + " ORDER BY id"
	args = append(args, scopeArgs...)

	return s.queryRecords(ctx, query, args...)
}

// recordScopeClause renders the scope as a WHERE fragment over the
// denormalized manager/object columns. visible=false means the scope can
// never match (deputy with no assignments).
func recordScopeClause(scope access.Scope) (clause string, args []any, visible bool) {
	switch scope.Role {
	case access.RoleManager:
		return " AND manager_id = ?", []any{scope.UserID}, true
	case access.RoleDeputy:
		if len(scope.ObjectIDs) == 0 {
			return "", nil, false
		}
		clause = " AND object_id IN (?" + strings.Repeat(",?", len(scope.ObjectIDs)-1) + ")"
		for _, id := range scope.ObjectIDs {
			args = append(args, id)
		}
		return clause, args, true
	default:
		if scope.ObjectID != "" {
			return " AND object_id = ?", []any{scope.ObjectID}, true
		}
		return "", nil, true
	}
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]record.MaterializedRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []record.MaterializedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (record.MaterializedRecord, error) {
	var (
		rec                    record.MaterializedRecord
		idStr, dateStr, status string
		techCardID             string
		completedAt, photos    string
	)
	err := row.Scan(
		&idStr, &techCardID, &dateStr, &rec.Description, &status,
		&rec.ObjectID, &rec.ObjectName, &rec.ManagerID, &rec.ManagerName, &rec.RoomID, &rec.RoomName, &rec.Frequency,
		&completedAt, &rec.CompletedByID, &rec.CompletedByName, &rec.Comment, &photos,
	)
	if err != nil {
		return record.MaterializedRecord{}, err
	}

	date, err := time.ParseInLocation(schedule.DateLayout, dateStr, time.UTC)
	if err != nil {
		return record.MaterializedRecord{}, fmt.Errorf("record %s: bad scheduled_date %q: %w", idStr, dateStr, err)
	}
	rec.ID = schedule.TaskID{TechCardID: techCardID, Date: date}
	rec.Status = record.CompletionStatus(status)

	if completedAt != "" {
		rec.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return record.MaterializedRecord{}, fmt.Errorf("record %s: bad completed_at %q: %w", idStr, completedAt, err)
		}
	}
	if err := json.Unmarshal([]byte(photos), &rec.Photos); err != nil {
		return record.MaterializedRecord{}, fmt.Errorf("record %s: bad photos: %w", idStr, err)
	}
	return rec, nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
