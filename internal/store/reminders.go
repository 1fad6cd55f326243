package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/servicetrack/backend/internal/models"
)

func (s *Postgres) CreateReminder(ctx context.Context, r *models.Reminder) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reminders (id, vehicle_id, title, due_date, due_mileage, is_completed, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.VehicleID, r.Title, r.DueDate, r.DueMileage, r.IsCompleted, r.Notes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (s *Postgres) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, vehicle_id, title, due_date, due_mileage, is_completed, notes, created_at, updated_at
		 FROM reminders WHERE id = $1`, id)

	r, err := scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

// ListReminders returns the caller's reminders, newest first, joined
// through vehicles so rows owned by other users never surface. completed
// is a tri-state filter: nil means both.
func (s *Postgres) ListReminders(ctx context.Context, userID, vehicleID string, completed *bool) ([]models.Reminder, error) {
	query := `SELECT r.id, r.vehicle_id, r.title, r.due_date, r.due_mileage, r.is_completed, r.notes, r.created_at, r.updated_at
		 FROM reminders r
		 JOIN vehicles v ON v.id = r.vehicle_id
		 WHERE v.user_id = $1`
	args := []any{userID}
	if vehicleID != "" {
		args = append(args, vehicleID)
		query += fmt.Sprintf(` AND r.vehicle_id = $%d`, len(args))
	}
	if completed != nil {
		args = append(args, *completed)
		query += fmt.Sprintf(` AND r.is_completed = $%d`, len(args))
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	var (
		r       models.Reminder
		dueDate *time.Time
	)
	err := row.Scan(&r.ID, &r.VehicleID, &r.Title, &dueDate, &r.DueMileage, &r.IsCompleted, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate != nil {
		r.DueDate = &models.Date{Time: *dueDate}
	}
	return &r, nil
}

func (s *Postgres) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reminders
		 SET vehicle_id = $2, title = $3, due_date = $4, due_mileage = $5, is_completed = $6, notes = $7, updated_at = $8
		 WHERE id = $1`,
		r.ID, r.VehicleID, r.Title, r.DueDate, r.DueMileage, r.IsCompleted, r.Notes, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteReminder(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
