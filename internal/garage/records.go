package garage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/servicetrack/backend/internal/models"
)

func (s *Service) CreateServiceRecord(ctx context.Context, userID string, req models.CreateServiceRecordRequest) (*models.ServiceRecord, error) {
	title := strings.TrimSpace(req.Title)
	if req.VehicleID == "" || title == "" || req.ServiceDate == "" {
		return nil, invalid("vehicle_id, title, and service_date are required.")
	}
	serviceDate, err := models.ParseDate(req.ServiceDate)
	if err != nil {
		return nil, invalid("service_date must be YYYY-MM-DD.")
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return nil, invalid("mileage must be >= 0.")
	}

	if _, err := s.vehicleOwnedBy(ctx, userID, req.VehicleID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &models.ServiceRecord{
		ID:          uuid.NewString(),
		VehicleID:   req.VehicleID,
		Title:       title,
		Category:    models.TrimToNull(req.Category),
		ServiceDate: serviceDate,
		Mileage:     req.Mileage,
		Cost:        req.Cost,
		Notes:       models.TrimToNull(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateServiceRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create service record: %w", err)
	}
	return rec, nil
}

func (s *Service) ListServiceRecords(ctx context.Context, userID, vehicleID string) ([]models.ServiceRecord, error) {
	return s.store.ListServiceRecords(ctx, userID, vehicleID)
}

// serviceRecordOwnedBy walks the ownership chain record -> vehicle ->
// user, re-checked on every call.
func (s *Service) serviceRecordOwnedBy(ctx context.Context, userID, id string) (*models.ServiceRecord, error) {
	rec, err := s.store.GetServiceRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicleOwnedBy(ctx, userID, rec.VehicleID); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetServiceRecord(ctx context.Context, userID, id string) (*models.ServiceRecord, error) {
	return s.serviceRecordOwnedBy(ctx, userID, id)
}

func (s *Service) UpdateServiceRecord(ctx context.Context, userID, id string, req models.UpdateServiceRecordRequest) (*models.ServiceRecord, error) {
	rec, err := s.serviceRecordOwnedBy(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Get())
		if title == "" {
			return nil, invalid("title cannot be empty.")
		}
		rec.Title = title
	}
	if req.Category.Set {
		rec.Category = models.TrimToNull(req.Category.Get())
	}
	if req.ServiceDate.Set {
		serviceDate, err := models.ParseDate(req.ServiceDate.Get())
		if err != nil {
			return nil, invalid("service_date must be YYYY-MM-DD.")
		}
		rec.ServiceDate = serviceDate
	}
	if req.Mileage.Set {
		if req.Mileage.Value != nil && *req.Mileage.Value < 0 {
			return nil, invalid("mileage must be >= 0.")
		}
		rec.Mileage = req.Mileage.Value
	}
	if req.Cost.Set {
		rec.Cost = req.Cost.Value
	}
	if req.Notes.Set {
		rec.Notes = models.TrimToNull(req.Notes.Get())
	}

	// Moving the record re-runs the ownership check against the target
	// vehicle; on failure nothing has been persisted yet.
	if req.VehicleID.Set && req.VehicleID.Value != nil {
		target, err := s.vehicleOwnedBy(ctx, userID, *req.VehicleID.Value)
		if err != nil {
			return nil, err
		}
		rec.VehicleID = target.ID
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateServiceRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("update service record: %w", err)
	}
	return rec, nil
}

func (s *Service) DeleteServiceRecord(ctx context.Context, userID, id string) error {
	if _, err := s.serviceRecordOwnedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteServiceRecord(ctx, id)
}
