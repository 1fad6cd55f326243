package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/servicetrack/backend/internal/models"
)

func (s *Postgres) CreateServiceRecord(ctx context.Context, r *models.ServiceRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO service_records (id, vehicle_id, title, category, service_date, mileage, cost, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.VehicleID, r.Title, r.Category, r.ServiceDate, r.Mileage, r.Cost, r.Notes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create service record: %w", err)
	}
	return nil
}

func (s *Postgres) GetServiceRecord(ctx context.Context, id string) (*models.ServiceRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, vehicle_id, title, category, service_date, mileage, cost, notes, created_at, updated_at
		 FROM service_records WHERE id = $1`, id)

	r, err := scanServiceRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service record: %w", err)
	}
	return r, nil
}

// ListServiceRecords returns the caller's records, newest service date
// first. The join through vehicles is the ownership filter: rows whose
// vehicle belongs to someone else never appear, so an unowned vehicleID
// filter simply matches nothing.
func (s *Postgres) ListServiceRecords(ctx context.Context, userID, vehicleID string) ([]models.ServiceRecord, error) {
	query := `SELECT r.id, r.vehicle_id, r.title, r.category, r.service_date, r.mileage, r.cost, r.notes, r.created_at, r.updated_at
		 FROM service_records r
		 JOIN vehicles v ON v.id = r.vehicle_id
		 WHERE v.user_id = $1`
	args := []any{userID}
	if vehicleID != "" {
		query += ` AND r.vehicle_id = $2`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY r.service_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	defer rows.Close()

	var records []models.ServiceRecord
	for rows.Next() {
		r, err := scanServiceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func scanServiceRecord(row pgx.Row) (*models.ServiceRecord, error) {
	var (
		r           models.ServiceRecord
		serviceDate time.Time
		cost        decimal.NullDecimal
	)
	err := row.Scan(&r.ID, &r.VehicleID, &r.Title, &r.Category, &serviceDate, &r.Mileage, &cost, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.ServiceDate = models.Date{Time: serviceDate}
	if cost.Valid {
		r.Cost = &models.Money{Decimal: cost.Decimal}
	}
	return &r, nil
}

func (s *Postgres) UpdateServiceRecord(ctx context.Context, r *models.ServiceRecord) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE service_records
		 SET vehicle_id = $2, title = $3, category = $4, service_date = $5, mileage = $6, cost = $7, notes = $8, updated_at = $9
		 WHERE id = $1`,
		r.ID, r.VehicleID, r.Title, r.Category, r.ServiceDate, r.Mileage, r.Cost, r.Notes, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteServiceRecord(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM service_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
