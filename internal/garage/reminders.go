package garage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/servicetrack/backend/internal/models"
)

func (s *Service) CreateReminder(ctx context.Context, userID string, req models.CreateReminderRequest) (*models.Reminder, error) {
	title := strings.TrimSpace(req.Title)
	if req.VehicleID == "" || title == "" {
		return nil, invalid("vehicle_id and title are required.")
	}
	if req.DueDate == "" && req.DueMileage == nil {
		return nil, invalid("Provide due_date or due_mileage.")
	}

	var dueDate *models.Date
	if req.DueDate != "" {
		d, err := models.ParseDate(req.DueDate)
		if err != nil {
			return nil, invalid("due_date must be YYYY-MM-DD.")
		}
		dueDate = &d
	}
	if req.DueMileage != nil && *req.DueMileage < 0 {
		return nil, invalid("due_mileage must be >= 0.")
	}

	if _, err := s.vehicleOwnedBy(ctx, userID, req.VehicleID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rem := &models.Reminder{
		ID:         uuid.NewString(),
		VehicleID:  req.VehicleID,
		Title:      title,
		DueDate:    dueDate,
		DueMileage: req.DueMileage,
		Notes:      models.TrimToNull(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateReminder(ctx, rem); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return rem, nil
}

func (s *Service) ListReminders(ctx context.Context, userID, vehicleID string, completed *bool) ([]models.Reminder, error) {
	return s.store.ListReminders(ctx, userID, vehicleID, completed)
}

func (s *Service) reminderOwnedBy(ctx context.Context, userID, id string) (*models.Reminder, error) {
	rem, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicleOwnedBy(ctx, userID, rem.VehicleID); err != nil {
		return nil, err
	}
	return rem, nil
}

func (s *Service) GetReminder(ctx context.Context, userID, id string) (*models.Reminder, error) {
	return s.reminderOwnedBy(ctx, userID, id)
}

func (s *Service) UpdateReminder(ctx context.Context, userID, id string, req models.UpdateReminderRequest) (*models.Reminder, error) {
	rem, err := s.reminderOwnedBy(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Get())
		if title == "" {
			return nil, invalid("title cannot be empty.")
		}
		rem.Title = title
	}
	if req.DueDate.Set {
		// An empty or null due_date clears the field; non-empty text must
		// parse or the whole update is rejected.
		raw := req.DueDate.Get()
		if raw == "" {
			rem.DueDate = nil
		} else {
			d, err := models.ParseDate(raw)
			if err != nil {
				return nil, invalid("due_date must be YYYY-MM-DD.")
			}
			rem.DueDate = &d
		}
	}
	if req.DueMileage.Set {
		if req.DueMileage.Value != nil && *req.DueMileage.Value < 0 {
			return nil, invalid("due_mileage must be >= 0.")
		}
		rem.DueMileage = req.DueMileage.Value
	}
	if req.IsCompleted.Set {
		rem.IsCompleted = req.IsCompleted.Get()
	}
	if req.Notes.Set {
		rem.Notes = models.TrimToNull(req.Notes.Get())
	}

	if req.VehicleID.Set && req.VehicleID.Value != nil {
		target, err := s.vehicleOwnedBy(ctx, userID, *req.VehicleID.Value)
		if err != nil {
			return nil, err
		}
		rem.VehicleID = target.ID
	}

	rem.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateReminder(ctx, rem); err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return rem, nil
}

func (s *Service) DeleteReminder(ctx context.Context, userID, id string) error {
	if _, err := s.reminderOwnedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteReminder(ctx, id)
}
