package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicetrack/backend/internal/models"
)

func addUser(t *testing.T, m *Memory, email string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, m.CreateUser(context.Background(), &models.User{ID: id, Email: email}))
	return id
}

func addVehicle(t *testing.T, m *Memory, userID string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, m.CreateVehicle(context.Background(), &models.Vehicle{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}))
	return id
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	m := NewMemory()
	addUser(t, m, "one@example.com")

	err := m.CreateUser(context.Background(), &models.User{ID: uuid.NewString(), Email: "ONE@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	m := NewMemory()
	addUser(t, m, "one@example.com")
	id := addUser(t, m, "two@example.com")

	err := m.UpdateUser(context.Background(), &models.User{ID: id, Email: "One@Example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// keeping your own email is fine
	err = m.UpdateUser(context.Background(), &models.User{ID: id, Email: "two@example.com"})
	assert.NoError(t, err)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := addUser(t, m, "owner@example.com")
	otherID := addUser(t, m, "other@example.com")
	vehicleID := addVehicle(t, m, userID)
	keptVehicleID := addVehicle(t, m, otherID)

	recordID := uuid.NewString()
	require.NoError(t, m.CreateServiceRecord(ctx, &models.ServiceRecord{ID: recordID, VehicleID: vehicleID}))
	reminderID := uuid.NewString()
	require.NoError(t, m.CreateReminder(ctx, &models.Reminder{ID: reminderID, VehicleID: vehicleID}))

	require.NoError(t, m.DeleteUser(ctx, userID))

	_, err := m.GetVehicle(ctx, vehicleID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetServiceRecord(ctx, recordID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetReminder(ctx, reminderID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the other user's data survives
	_, err = m.GetVehicle(ctx, keptVehicleID)
	assert.NoError(t, err)
}

func TestListVehiclesNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := addUser(t, m, "owner@example.com")

	base := time.Now().UTC()
	oldID, newID := uuid.NewString(), uuid.NewString()
	require.NoError(t, m.CreateVehicle(ctx, &models.Vehicle{ID: oldID, UserID: userID, CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, m.CreateVehicle(ctx, &models.Vehicle{ID: newID, UserID: userID, CreatedAt: base}))

	vehicles, err := m.ListVehicles(ctx, userID)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, newID, vehicles[0].ID)
	assert.Equal(t, oldID, vehicles[1].ID)
}

func TestListServiceRecordsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := addUser(t, m, "owner@example.com")
	otherID := addUser(t, m, "other@example.com")
	mine := addVehicle(t, m, userID)
	theirs := addVehicle(t, m, otherID)

	require.NoError(t, m.CreateServiceRecord(ctx, &models.ServiceRecord{ID: uuid.NewString(), VehicleID: mine}))
	require.NoError(t, m.CreateServiceRecord(ctx, &models.ServiceRecord{ID: uuid.NewString(), VehicleID: theirs}))

	records, err := m.ListServiceRecords(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, mine, records[0].VehicleID)

	// filtering by someone else's vehicle yields nothing, not an error
	records, err = m.ListServiceRecords(ctx, userID, theirs)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListRemindersCompletedFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := addUser(t, m, "owner@example.com")
	vehicleID := addVehicle(t, m, userID)

	doneID := uuid.NewString()
	require.NoError(t, m.CreateReminder(ctx, &models.Reminder{ID: doneID, VehicleID: vehicleID, IsCompleted: true}))
	require.NoError(t, m.CreateReminder(ctx, &models.Reminder{ID: uuid.NewString(), VehicleID: vehicleID}))

	completed := true
	reminders, err := m.ListReminders(ctx, userID, "", &completed)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, doneID, reminders[0].ID)

	reminders, err = m.ListReminders(ctx, userID, "", nil)
	require.NoError(t, err)
	assert.Len(t, reminders, 2)
}

func TestUpdateMissingRowsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	assert.ErrorIs(t, m.UpdateVehicle(ctx, &models.Vehicle{ID: uuid.NewString()}), ErrNotFound)
	assert.ErrorIs(t, m.UpdateServiceRecord(ctx, &models.ServiceRecord{ID: uuid.NewString()}), ErrNotFound)
	assert.ErrorIs(t, m.UpdateReminder(ctx, &models.Reminder{ID: uuid.NewString()}), ErrNotFound)
	assert.ErrorIs(t, m.DeleteVehicle(ctx, uuid.NewString()), ErrNotFound)
	assert.ErrorIs(t, m.DeleteServiceRecord(ctx, uuid.NewString()), ErrNotFound)
	assert.ErrorIs(t, m.DeleteReminder(ctx, uuid.NewString()), ErrNotFound)
}
