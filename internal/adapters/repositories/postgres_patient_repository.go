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

var _ ports.PatientRepository = (*PostgresPatientRepository)(nil)

// Postgres-backed implementation of the PatientRepository port.
type PostgresPatientRepository struct{ DB *sql.DB }

func NewPostgresPatientRepository(db *sql.DB) *PostgresPatientRepository {
	return &PostgresPatientRepository{DB: db}
}

// Return every patient with a pickup or treatment end on the given date.
func (r *PostgresPatientRepository) ListPatients(ctx context.Context, day time.Time) ([]*domain.Patient, error) {
	if r.DB == nil {
		return nil, errors.New("postgres patient repository: DB is nil")
	}

	from := domain.StartOfDay(day)
	to := from.AddDate(0, 0, 1)

	query := `
	SELECT
		id, name, phone, pickup_at, treatment_end_at, lat, lon,
		street, postal_code, city, geocoding_status, wheelchair,
		COALESCE(pickup_slot_id, ''), COALESCE(dropoff_slot_id, ''), COALESCE(vehicle_id, ''), status
	FROM patients
	WHERE (pickup_at >= $1 AND pickup_at < $2)
	   OR (treatment_end_at >= $1 AND treatment_end_at < $2)
	ORDER BY name, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list patients: query patients table: %w", err)
	}
	defer rows.Close()

	patients := make([]*domain.Patient, 0, 64)
	for rows.Next() {
		var (
			p                 domain.Patient
			pickupAt, endAt   sql.NullTime
			lat, lon          sql.NullFloat64
			geocoding, status string
		)
		err := rows.Scan(
			&p.ID, &p.Name, &p.Phone, &pickupAt, &endAt, &lat, &lon,
			&p.Address.Street, &p.Address.PostalCode, &p.Address.City, &geocoding, &p.Wheelchair,
			&p.PickupSlotID, &p.DropoffSlotID, &p.VehicleID, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("list patients: scan row: %w", err)
		}

		if pickupAt.Valid {
			t := pickupAt.Time
			p.PickupAt = &t
		}
		if endAt.Valid {
			t := endAt.Time
			p.TreatmentEndAt = &t
		}
		if lat.Valid && lon.Valid {
			p.Location = domain.NewCoordinates(lat.Float64, lon.Float64)
		}
		p.GeocodingStatus = domain.GeocodingStatus(geocoding)
		p.Status = domain.PatientStatus(status)

		patients = append(patients, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: row iteration: %w", err)
	}

	return patients, nil
}

// Persist slot, vehicle and status fields in one transaction.
func (r *PostgresPatientRepository) SaveAssignments(ctx context.Context, patients []*domain.Patient) error {
	if r.DB == nil {
		return errors.New("postgres patient repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save assignments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	UPDATE patients
	SET pickup_slot_id = $1, dropoff_slot_id = $2, vehicle_id = $3, status = $4
	WHERE id = $5;
	`)
	if err != nil {
		return fmt.Errorf("save assignments: prepare update: %w", err)
	}
	defer stmt.Close()

	for _, p := range patients {
		res, err := stmt.ExecContext(ctx,
			nullIfEmpty(p.PickupSlotID), nullIfEmpty(p.DropoffSlotID), nullIfEmpty(p.VehicleID), string(p.Status), p.ID,
		)
		if err != nil {
			return fmt.Errorf("save assignments: update patient_id=%s: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("save assignments: patient_id=%s: %w", p.ID, domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save assignments: commit tx: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func coordinateArgs(c *domain.Coordinates) (lat, lon any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lon
}
