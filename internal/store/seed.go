package store

import (
	"context"
	"fmt"
)

// SeedDemo loads a small demo dataset on first run. It is a no-op when any
// tech cards already exist.
func (s *Store) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tech_cards").Scan(&count); err != nil {
		return fmt.Errorf("count tech cards: %w", err)
	}
	if count > 0 {
		return nil
	}

	stmts := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO users (id, name, phone) VALUES (?, ?, ?)",
			[]any{"u_ivanova", "Иванова А.П.", "+7 900 000-00-01"}},
		{"INSERT INTO users (id, name, phone) VALUES (?, ?, ?)",
			[]any{"u_petrov", "Петров С.Н.", "+7 900 000-00-02"}},

		{"INSERT INTO objects (id, name, manager_id) VALUES (?, ?, ?)",
			[]any{"obj_office", "Бизнес-центр «Восток»", "u_ivanova"}},
		{"INSERT INTO objects (id, name, manager_id) VALUES (?, ?, ?)",
			[]any{"obj_plant", "Производственный корпус №2", "u_petrov"}},

		{"INSERT INTO rooms (id, object_id, name) VALUES (?, ?, ?)",
			[]any{"room_lobby", "obj_office", "Холл 1 этажа"}},
		{"INSERT INTO rooms (id, object_id, name) VALUES (?, ?, ?)",
			[]any{"room_shop", "obj_plant", "Цех сборки"}},

		{"INSERT INTO tech_cards (id, name, frequency, object_id, room_id) VALUES (?, ?, ?, ?, ?)",
			[]any{"tc_lobby_clean", "Влажная уборка холла", "ежедневно", "obj_office", "room_lobby"}},
		{"INSERT INTO tech_cards (id, name, frequency, object_id, room_id) VALUES (?, ?, ?, ?, NULL)",
			[]any{"tc_windows", "Мытьё окон фасада", "раз в месяц", "obj_office"}},
		{"INSERT INTO tech_cards (id, name, frequency, object_id, room_id) VALUES (?, ?, ?, ?, ?)",
			[]any{"tc_shop_sweep", "Уборка цеха", "ежедневно", "obj_plant", "room_shop"}},
		{"INSERT INTO tech_cards (id, name, frequency, object_id, room_id) VALUES (?, ?, ?, ?, NULL)",
			[]any{"tc_vents", "Чистка вентиляции", "ежеквартально", "obj_plant"}},
	}

	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}
	return nil
}
