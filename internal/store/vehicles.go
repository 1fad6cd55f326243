package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/servicetrack/backend/internal/models"
)

const vehicleColumns = `id, user_id, nickname, vin, year, make, model, trim, engine, created_at, updated_at`

func (s *Postgres) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO vehicles (`+vehicleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.UserID, v.Nickname, v.VIN, v.Year, v.Make, v.Model, v.Trim, v.Engine, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (s *Postgres) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)

	var v models.Vehicle
	err := row.Scan(&v.ID, &v.UserID, &v.Nickname, &v.VIN, &v.Year, &v.Make, &v.Model, &v.Trim, &v.Engine, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

func (s *Postgres) ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Nickname, &v.VIN, &v.Year, &v.Make, &v.Model, &v.Trim, &v.Engine, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (s *Postgres) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE vehicles
		 SET nickname = $2, vin = $3, year = $4, make = $5, model = $6, trim = $7, engine = $8, updated_at = $9
		 WHERE id = $1`,
		v.ID, v.Nickname, v.VIN, v.Year, v.Make, v.Model, v.Trim, v.Engine, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVehicle removes the vehicle; service records and reminders go with
// it via the cascading foreign keys.
func (s *Postgres) DeleteVehicle(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
