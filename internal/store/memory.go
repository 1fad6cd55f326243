package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/servicetrack/backend/internal/models"
)

// Memory is a map-backed store with the same behavior as Postgres,
// including the cascades the database would perform. It backs the tests
// and the no-database dev mode.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]models.User
	vehicles  map[string]models.Vehicle
	records   map[string]models.ServiceRecord
	reminders map[string]models.Reminder
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]models.User),
		vehicles:  make(map[string]models.Vehicle),
		records:   make(map[string]models.ServiceRecord),
		reminders: make(map[string]models.Reminder),
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *Memory) UpdateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	for vid, v := range m.vehicles {
		if v.UserID == id {
			m.deleteVehicleLocked(vid)
		}
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) CreateVehicle(_ context.Context, v *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.ID] = *v
	return nil
}

func (m *Memory) GetVehicle(_ context.Context, id string) (*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := v
	return &out, nil
}

func (m *Memory) ListVehicles(_ context.Context, userID string) ([]models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vehicles []models.Vehicle
	for _, v := range m.vehicles {
		if v.UserID == userID {
			vehicles = append(vehicles, v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt)
	})
	return vehicles, nil
}

func (m *Memory) UpdateVehicle(_ context.Context, v *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[v.ID]; !ok {
		return ErrNotFound
	}
	m.vehicles[v.ID] = *v
	return nil
}

func (m *Memory) DeleteVehicle(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return ErrNotFound
	}
	m.deleteVehicleLocked(id)
	return nil
}

// deleteVehicleLocked sweeps the children bottom-up, standing in for the
// database's ON DELETE CASCADE.
func (m *Memory) deleteVehicleLocked(id string) {
	for rid, r := range m.records {
		if r.VehicleID == id {
			delete(m.records, rid)
		}
	}
	for rid, r := range m.reminders {
		if r.VehicleID == id {
			delete(m.reminders, rid)
		}
	}
	delete(m.vehicles, id)
}

func (m *Memory) CreateServiceRecord(_ context.Context, r *models.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = *r
	return nil
}

func (m *Memory) GetServiceRecord(_ context.Context, id string) (*models.ServiceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	return &out, nil
}

func (m *Memory) ListServiceRecords(_ context.Context, userID, vehicleID string) ([]models.ServiceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []models.ServiceRecord
	for _, r := range m.records {
		v, ok := m.vehicles[r.VehicleID]
		if !ok || v.UserID != userID {
			continue
		}
		if vehicleID != "" && r.VehicleID != vehicleID {
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ServiceDate.After(records[j].ServiceDate.Time)
	})
	return records, nil
}

func (m *Memory) UpdateServiceRecord(_ context.Context, r *models.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; !ok {
		return ErrNotFound
	}
	m.records[r.ID] = *r
	return nil
}

func (m *Memory) DeleteServiceRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) CreateReminder(_ context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.ID] = *r
	return nil
}

func (m *Memory) GetReminder(_ context.Context, id string) (*models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	return &out, nil
}

func (m *Memory) ListReminders(_ context.Context, userID, vehicleID string, completed *bool) ([]models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reminders []models.Reminder
	for _, r := range m.reminders {
		v, ok := m.vehicles[r.VehicleID]
		if !ok || v.UserID != userID {
			continue
		}
		if vehicleID != "" && r.VehicleID != vehicleID {
			continue
		}
		if completed != nil && r.IsCompleted != *completed {
			continue
		}
		reminders = append(reminders, r)
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].CreatedAt.After(reminders[j].CreatedAt)
	})
	return reminders, nil
}

func (m *Memory) UpdateReminder(_ context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reminders[r.ID]; !ok {
		return ErrNotFound
	}
	m.reminders[r.ID] = *r
	return nil
}

func (m *Memory) DeleteReminder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reminders[id]; !ok {
		return ErrNotFound
	}
	delete(m.reminders, id)
	return nil
}
