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

var _ ports.VehicleRepository = (*PostgresVehicleRepository)(nil)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

// Return all vehicles, whatever their status; planning filters unavailable ones.
func (r *PostgresVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("postgres vehicle repository: DB is nil")
	}

	query := `
	SELECT
		id, plate, reference, model, total_seats, special_seats,
		cost_per_km, max_route_minutes, status
	FROM vehicles
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var (
			v          domain.Vehicle
			maxMinutes int
			status     string
		)
		if err := rows.Scan(
			&v.ID, &v.Plate, &v.Reference, &v.Model, &v.TotalSeats, &v.SpecialSeats,
			&v.CostPerKm, &maxMinutes, &status,
		); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.MaxRouteDuration = time.Duration(maxMinutes) * time.Minute
		v.Status = domain.VehicleStatus(status)
		vehicles = append(vehicles, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
