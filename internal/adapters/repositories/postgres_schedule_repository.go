package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
)

var _ ports.ScheduleRepository = (*PostgresScheduleRepository)(nil)

// Postgres-backed implementation of the ScheduleRepository port.
// Schedules are versioned rows; the active one is flagged, never recreated.
type PostgresScheduleRepository struct{ DB *sql.DB }

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{DB: db}
}

func (r *PostgresScheduleRepository) LoadScheduleBook(ctx context.Context) (*domain.ScheduleBook, error) {
	if r.DB == nil {
		return nil, errors.New("postgres schedule repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, active FROM schedules ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("load schedules: query schedules table: %w", err)
	}
	defer rows.Close()

	book := &domain.ScheduleBook{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			s      domain.Schedule
			active bool
		)
		if err := rows.Scan(&s.ID, &s.Name, &active); err != nil {
			return nil, fmt.Errorf("load schedules: scan schedule row: %w", err)
		}
		if active {
			book.ActiveID = s.ID
		}
		index[s.ID] = len(book.Schedules)
		book.Schedules = append(book.Schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load schedules: schedule row iteration: %w", err)
	}

	slotRows, err := r.DB.QueryContext(ctx, `
	SELECT id, schedule_id, name, direction, anchor_minutes, COALESCE(end_minutes, 0), active, default_selected
	FROM time_slots
	ORDER BY schedule_id, anchor_minutes, id;
	`)
	if err != nil {
		return nil, fmt.Errorf("load schedules: query time_slots table: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var (
			sl                domain.TimeSlot
			direction         string
			anchorMin, endMin int
		)
		if err := slotRows.Scan(&sl.ID, &sl.ScheduleID, &sl.Name, &direction, &anchorMin, &endMin, &sl.Active, &sl.DefaultSelected); err != nil {
			return nil, fmt.Errorf("load schedules: scan slot row: %w", err)
		}
		sl.Direction = domain.Direction(direction)
		sl.Anchor = time.Duration(anchorMin) * time.Minute
		sl.End = time.Duration(endMin) * time.Minute

		i, ok := index[sl.ScheduleID]
		if !ok {
			continue
		}
		book.Schedules[i].Slots = append(book.Schedules[i].Slots, sl)
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("load schedules: slot row iteration: %w", err)
	}

	return book, nil
}

// Move the active pointer to id; slot rows are left untouched.
func (r *PostgresScheduleRepository) ActivateSchedule(ctx context.Context, id string) error {
	if r.DB == nil {
		return errors.New("postgres schedule repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("activate schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT TRUE FROM schedules WHERE id = $1;`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("activate schedule %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("activate schedule: lookup %q: %w", id, err)
	}

	// Deactivate first so the single-active index never sees two rows.
	if _, err := tx.ExecContext(ctx, `UPDATE schedules SET active = FALSE WHERE active AND id <> $1;`, id); err != nil {
		return fmt.Errorf("activate schedule: deactivate current: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schedules SET active = TRUE WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("activate schedule: activate %q: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("activate schedule: commit tx: %w", err)
	}
	return nil
}
