// Package garage implements the ownership-scoped access layer for
// vehicles, service records, and reminders. Every operation resolves the
// chain resource -> vehicle -> user before touching anything, so a
// resource that exists but belongs to someone else is indistinguishable
// from one that doesn't exist.
package garage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/servicetrack/backend/internal/models"
	"github.com/servicetrack/backend/internal/store"
)

// Store defines the persistence interface the access layer needs.
type Store interface {
	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error

	CreateServiceRecord(ctx context.Context, r *models.ServiceRecord) error
	GetServiceRecord(ctx context.Context, id string) (*models.ServiceRecord, error)
	ListServiceRecords(ctx context.Context, userID, vehicleID string) ([]models.ServiceRecord, error)
	UpdateServiceRecord(ctx context.Context, r *models.ServiceRecord) error
	DeleteServiceRecord(ctx context.Context, id string) error

	CreateReminder(ctx context.Context, r *models.Reminder) error
	GetReminder(ctx context.Context, id string) (*models.Reminder, error)
	ListReminders(ctx context.Context, userID, vehicleID string, completed *bool) ([]models.Reminder, error)
	UpdateReminder(ctx context.Context, r *models.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// ValidationError reports missing or malformed input. It always maps to a
// 400 at the boundary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) *ValidationError { return &ValidationError{Msg: msg} }

// Service is the access layer. The store handle is injected explicitly;
// there is no ambient shared state.
type Service struct {
	store Store
	vin   VINDecoder
}

// NewService builds a Service. vin may be nil to disable enrichment.
func NewService(st Store, vin VINDecoder) *Service {
	return &Service{store: st, vin: vin}
}

// vehicleOwnedBy loads a vehicle and checks the owner, fresh on every
// call. A vehicle owned by another user comes back as ErrNotFound.
func (s *Service) vehicleOwnedBy(ctx context.Context, userID, vehicleID string) (*models.Vehicle, error) {
	v, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func normalizeVIN(raw string) (*string, error) {
	vin := strings.ToUpper(strings.TrimSpace(raw))
	if vin == "" {
		return nil, nil
	}
	if len(vin) != 17 {
		return nil, invalid("vin must be exactly 17 characters.")
	}
	return &vin, nil
}

// enrichFromVIN fills fields the caller left blank from the VIN decoder.
// Decoding is advisory: any failure is logged and the vehicle goes
// through unchanged.
func (s *Service) enrichFromVIN(ctx context.Context, v *models.Vehicle) {
	if s.vin == nil || v.VIN == nil {
		return
	}
	if v.Year != nil && v.Make != nil && v.Model != nil && v.Trim != nil && v.Engine != nil {
		return
	}

	data, err := s.vin.Decode(ctx, *v.VIN)
	if err != nil {
		log.Warn().Err(err).Str("vin", *v.VIN).Msg("vin decode failed")
		return
	}
	if data == nil {
		return
	}
	if v.Year == nil {
		v.Year = data.Year
	}
	if v.Make == nil {
		v.Make = data.Make
	}
	if v.Model == nil {
		v.Model = data.Model
	}
	if v.Trim == nil {
		v.Trim = data.Trim
	}
	if v.Engine == nil {
		v.Engine = data.Engine
	}
}

func (s *Service) CreateVehicle(ctx context.Context, userID string, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	vin, err := normalizeVIN(req.VIN)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	v := &models.Vehicle{
		ID:        uuid.NewString(),
		UserID:    userID,
		Nickname:  models.TrimToNull(req.Nickname),
		VIN:       vin,
		Year:      req.Year,
		Make:      models.TrimToNull(req.Make),
		Model:     models.TrimToNull(req.Model),
		Trim:      models.TrimToNull(req.Trim),
		Engine:    models.TrimToNull(req.Engine),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.enrichFromVIN(ctx, v)

	if err := s.store.CreateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (s *Service) ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	return s.store.ListVehicles(ctx, userID)
}

func (s *Service) GetVehicle(ctx context.Context, userID, id string) (*models.Vehicle, error) {
	return s.vehicleOwnedBy(ctx, userID, id)
}

func (s *Service) UpdateVehicle(ctx context.Context, userID, id string, req models.UpdateVehicleRequest) (*models.Vehicle, error) {
	v, err := s.vehicleOwnedBy(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Nickname.Set {
		v.Nickname = models.TrimToNull(req.Nickname.Get())
	}
	vinChanged := false
	if req.VIN.Set {
		vin, err := normalizeVIN(req.VIN.Get())
		if err != nil {
			return nil, err
		}
		v.VIN = vin
		vinChanged = vin != nil
	}
	if req.Year.Set {
		v.Year = req.Year.Value
	}
	if req.Make.Set {
		v.Make = models.TrimToNull(req.Make.Get())
	}
	if req.Model.Set {
		v.Model = models.TrimToNull(req.Model.Get())
	}
	if req.Trim.Set {
		v.Trim = models.TrimToNull(req.Trim.Get())
	}
	if req.Engine.Set {
		v.Engine = models.TrimToNull(req.Engine.Get())
	}

	if vinChanged {
		s.enrichFromVIN(ctx, v)
	}

	v.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

// DeleteVehicle removes the vehicle and, through the store's cascade, all
// of its service records and reminders.
func (s *Service) DeleteVehicle(ctx context.Context, userID, id string) error {
	if _, err := s.vehicleOwnedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteVehicle(ctx, id)
}
