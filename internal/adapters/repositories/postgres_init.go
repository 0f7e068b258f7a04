package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSchedulesQuery := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	// At most one schedule may be the active one.
	createSingleActiveIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_single_active
	ON schedules(active) WHERE active;
	`

	createTimeSlotsQuery := `
	CREATE TABLE IF NOT EXISTS time_slots (
		id TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL REFERENCES schedules(id),
		name TEXT NOT NULL,
		direction TEXT NOT NULL CHECK (direction IN ('pickup', 'dropoff')),
		anchor_minutes INTEGER NOT NULL,
		end_minutes INTEGER,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		default_selected BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		plate TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		total_seats INTEGER NOT NULL CHECK (total_seats >= 0),
		special_seats INTEGER NOT NULL CHECK (special_seats >= 0),
		cost_per_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_route_minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'available'
	);
	`

	createPatientsQuery := `
	CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		pickup_at TIMESTAMPTZ,
		treatment_end_at TIMESTAMPTZ,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		street TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		geocoding_status TEXT NOT NULL DEFAULT 'pending',
		wheelchair BOOLEAN NOT NULL DEFAULT FALSE,
		pickup_slot_id TEXT REFERENCES time_slots(id),
		dropoff_slot_id TEXT REFERENCES time_slots(id),
		vehicle_id TEXT REFERENCES vehicles(id),
		status TEXT NOT NULL DEFAULT 'new'
	);
	`

	createPickupIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_patients_pickup_at ON patients(pickup_at);
	`

	createTreatmentEndIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_patients_treatment_end_at ON patients(treatment_end_at);
	`

	statements := []string{
		createSchedulesQuery,
		createSingleActiveIndexQuery,
		createTimeSlotsQuery,
		createVehiclesQuery,
		createPatientsQuery,
		createPickupIndexQuery,
		createTreatmentEndIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with schedules, vehicles and patients from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	book, err := seed.ScheduleBook()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	vehicles, err := seed.DomainVehicles()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	patients, err := seed.DomainPatients()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Clear the pointer first so the single-active index holds while rows are upserted.
	if _, err := tx.ExecContext(ctx, `UPDATE schedules SET active = FALSE WHERE active;`); err != nil {
		return fmt.Errorf("seed schedules: reset active: %w", err)
	}

	for _, s := range book.Schedules {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO schedules (id, name, active)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
		`, s.ID, s.Name); err != nil {
			return fmt.Errorf("seed schedules: insert schedule_id=%s: %w", s.ID, err)
		}

		for _, sl := range s.Slots {
			var end any
			if sl.End > 0 {
				end = int(sl.End.Minutes())
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO time_slots (id, schedule_id, name, direction, anchor_minutes, end_minutes, active, default_selected)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				schedule_id = EXCLUDED.schedule_id,
				name = EXCLUDED.name,
				direction = EXCLUDED.direction,
				anchor_minutes = EXCLUDED.anchor_minutes,
				end_minutes = EXCLUDED.end_minutes,
				active = EXCLUDED.active,
				default_selected = EXCLUDED.default_selected;
			`, sl.ID, s.ID, sl.Name, string(sl.Direction), int(sl.Anchor.Minutes()), end, sl.Active, sl.DefaultSelected); err != nil {
				return fmt.Errorf("seed schedules: insert slot_id=%s: %w", sl.ID, err)
			}
		}
	}

	if book.ActiveID != "" {
		if _, err := tx.ExecContext(ctx, `UPDATE schedules SET active = TRUE WHERE id = $1;`, book.ActiveID); err != nil {
			return fmt.Errorf("seed schedules: activate schedule_id=%s: %w", book.ActiveID, err)
		}
	}

	for _, v := range vehicles {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO vehicles (id, plate, reference, model, total_seats, special_seats, cost_per_km, max_route_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			plate = EXCLUDED.plate,
			reference = EXCLUDED.reference,
			model = EXCLUDED.model,
			total_seats = EXCLUDED.total_seats,
			special_seats = EXCLUDED.special_seats,
			cost_per_km = EXCLUDED.cost_per_km,
			max_route_minutes = EXCLUDED.max_route_minutes,
			status = EXCLUDED.status;
		`, v.ID, v.Plate, v.Reference, v.Model, v.TotalSeats, v.SpecialSeats, v.CostPerKm, int(v.MaxRouteMinutes()), string(v.Status)); err != nil {
			return fmt.Errorf("seed vehicles: insert vehicle_id=%s: %w", v.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO patients (
		id, name, phone, pickup_at, treatment_end_at, lat, lon,
		street, postal_code, city, geocoding_status, wheelchair, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed patients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range patients {
		lat, lon := coordinateArgs(p.Location)
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Phone, p.PickupAt, p.TreatmentEndAt, lat, lon,
			p.Address.Street, p.Address.PostalCode, p.Address.City,
			string(p.GeocodingStatus), p.Wheelchair, string(p.Status),
		); err != nil {
			return fmt.Errorf("seed patients: insert patient_id=%s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
