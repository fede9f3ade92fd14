package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
	"github.com/Krestall88/cleaning-control-sub000/internal/techcard"
)

const techCardColumns = `
	c.id, c.name, c.description, c.work_type, c.frequency,
	c.object_id, o.name,
	COALESCE(o.manager_id, ''), COALESCE(u.name, ''), COALESCE(u.phone, ''),
	COALESCE(c.room_id, ''), COALESCE(r.name, '')`

const techCardFrom = `
	FROM tech_cards c
	JOIN objects o      ON o.id = c.object_id
	LEFT JOIN users u   ON u.id = o.manager_id
	LEFT JOIN rooms r   ON r.id = c.room_id`

// List returns the tech cards visible under the scope, ordered by id.
func (s *Store) List(ctx context.Context, scope access.Scope) ([]techcard.TechCard, error) {
	query := "SELECT" + techCardColumns + techCardFrom
	var (
		where []string
		args  []any
	)

	switch scope.Role {
	case access.RoleManager:
		where = append(where, "o.manager_id = ?")
		args = append(args, scope.UserID)
	case access.RoleDeputy:
		if len(scope.ObjectIDs) == 0 {
			return nil, nil
		}
		where = append(where, "c.object_id IN (?"+strings.Repeat(",?", len(scope.ObjectIDs)-1)+")")
		for _, id := range scope.ObjectIDs {
			args = append(args, id)
		}
	default:
		if scope.ObjectID != "" {
			where = append(where, "c.object_id = ?")
			args = append(args, scope.ObjectID)
		}
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tech cards: %w", err)
	}
	defer rows.Close()

	var cards []techcard.TechCard
	for rows.Next() {
		card, err := scanTechCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Get returns a single tech card regardless of scope.
func (s *Store) Get(ctx context.Context, id string) (techcard.TechCard, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+techCardColumns+techCardFrom+" WHERE c.id = ?", id)

	card, err := scanTechCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return techcard.TechCard{}, techcard.ErrNotFound
	}
	if err != nil {
		return techcard.TechCard{}, fmt.Errorf("get tech card %s: %w", id, err)
	}
	return card, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTechCard(row rowScanner) (techcard.TechCard, error) {
	var (
		c                                 techcard.TechCard
		objectName                        string
		managerID, managerName, managerPh string
		roomID, roomName                  string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.WorkType, &c.Frequency,
		&c.ObjectID, &objectName,
		&managerID, &managerName, &managerPh,
		&roomID, &roomName,
	)
	if err != nil {
		return techcard.TechCard{}, err
	}

	c.Object = techcard.Object{ID: c.ObjectID, Name: objectName}
	if managerID != "" {
		c.Object.Manager = &techcard.Manager{ID: managerID, Name: managerName, Phone: managerPh}
	}
	if roomID != "" {
		c.RoomID = roomID
		c.Room = &techcard.Room{ID: roomID, Name: roomName}
	}
	return c, nil
}
