package garage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicetrack/backend/internal/models"
	"github.com/servicetrack/backend/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	return NewService(st, nil), st
}

func seedUser(t *testing.T, st *store.Memory, email string) string {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "irrelevant",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u.ID
}

func seedVehicle(t *testing.T, svc *Service, userID, nickname string) *models.Vehicle {
	t.Helper()
	v, err := svc.CreateVehicle(context.Background(), userID, models.CreateVehicleRequest{Nickname: nickname})
	require.NoError(t, err)
	return v
}

func mustDecode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestVehicleAccessByNonOwner(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, st, "owner@example.com")
	intruder := seedUser(t, st, "intruder@example.com")

	v := seedVehicle(t, svc, owner, "daily driver")

	_, err := svc.GetVehicle(ctx, intruder, v.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.UpdateVehicle(ctx, intruder, v.ID,
		mustDecode[models.UpdateVehicleRequest](t, `{"nickname":"stolen"}`))
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.DeleteVehicle(ctx, intruder, v.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// the vehicle is untouched for the real owner
	got, err := svc.GetVehicle(ctx, owner, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Nickname)
	assert.Equal(t, "daily driver", *got.Nickname)
}

func TestVehicleVINValidation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "vin@example.com")

	var verr *ValidationError
	_, err := svc.CreateVehicle(ctx, userID, models.CreateVehicleRequest{VIN: "TOOSHORT"})
	require.ErrorAs(t, err, &verr)

	v, err := svc.CreateVehicle(ctx, userID, models.CreateVehicleRequest{VIN: "  1hgcm82633a004352 "})
	require.NoError(t, err)
	require.NotNil(t, v.VIN)
	assert.Equal(t, "1HGCM82633A004352", *v.VIN)
}

type fakeDecoder struct {
	data  *VINData
	err   error
	calls int
}

func (f *fakeDecoder) Decode(ctx context.Context, vin string) (*VINData, error) {
	f.calls++
	return f.data, f.err
}

func TestVINEnrichmentFillsOnlyMissingFields(t *testing.T) {
	st := store.NewMemory()
	year := 2003
	mk, mdl := "Honda", "Accord"
	dec := &fakeDecoder{data: &VINData{Year: &year, Make: &mk, Model: &mdl}}
	svc := NewService(st, dec)
	ctx := context.Background()
	userID := seedUser(t, st, "enrich@example.com")

	v, err := svc.CreateVehicle(ctx, userID, models.CreateVehicleRequest{
		VIN:  "1HGCM82633A004352",
		Make: "Custom Make",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dec.calls)
	require.NotNil(t, v.Make)
	assert.Equal(t, "Custom Make", *v.Make, "caller-provided fields win over decoder output")
	require.NotNil(t, v.Model)
	assert.Equal(t, "Accord", *v.Model)
	require.NotNil(t, v.Year)
	assert.Equal(t, 2003, *v.Year)
}

func TestVINDecodeFailureDoesNotBlockCreation(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st, &fakeDecoder{err: errors.New("upstream down")})
	ctx := context.Background()
	userID := seedUser(t, st, "offline@example.com")

	v, err := svc.CreateVehicle(ctx, userID, models.CreateVehicleRequest{VIN: "1HGCM82633A004352"})
	require.NoError(t, err)

	got, err := svc.GetVehicle(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Make)
}

func TestVehicleDeleteCascades(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "cascade@example.com")
	v := seedVehicle(t, svc, userID, "doomed")

	rec, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: v.ID, Title: "Oil change", ServiceDate: "2024-01-15",
	})
	require.NoError(t, err)
	mileage := 60000
	rem, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Timing belt", DueMileage: &mileage,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVehicle(ctx, userID, v.ID))

	_, err = st.GetServiceRecord(ctx, rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetReminder(ctx, rem.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVehicleUpdatePartialSemantics(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "partial@example.com")
	v, err := svc.CreateVehicle(ctx, userID, models.CreateVehicleRequest{
		Nickname: "truck", Make: "Ford",
	})
	require.NoError(t, err)

	// absent keys stay untouched, a present empty string clears to null
	got, err := svc.UpdateVehicle(ctx, userID, v.ID,
		mustDecode[models.UpdateVehicleRequest](t, `{"make":""}`))
	require.NoError(t, err)
	assert.Nil(t, got.Make)
	require.NotNil(t, got.Nickname)
	assert.Equal(t, "truck", *got.Nickname)
}

func TestServiceRecordRoundTrip(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "roundtrip@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	mileage := 45210
	req := mustDecode[models.CreateServiceRecordRequest](t,
		`{"vehicle_id":"`+v.ID+`","title":"Brake pads","service_date":"2024-03-15","mileage":45210,"cost":129.99}`)
	rec, err := svc.CreateServiceRecord(ctx, userID, req)
	require.NoError(t, err)

	got, err := svc.GetServiceRecord(ctx, userID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brake pads", got.Title)
	assert.Equal(t, "2024-03-15", got.ServiceDate.String())
	require.NotNil(t, got.Mileage)
	assert.Equal(t, mileage, *got.Mileage)
	require.NotNil(t, got.Cost)
	assert.Equal(t, "129.99", got.Cost.StringFixed(2))

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cost":129.99`)
	assert.Contains(t, string(raw), `"service_date":"2024-03-15"`)
}

func TestServiceRecordValidation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "validate@example.com")
	other := seedUser(t, st, "validate2@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	var verr *ValidationError

	_, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: v.ID, ServiceDate: "2024-01-01",
	})
	require.ErrorAs(t, err, &verr, "missing title")

	_, err = svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: v.ID, Title: "Oil", ServiceDate: "15-03-2024",
	})
	require.ErrorAs(t, err, &verr, "unparseable date")

	neg := -5
	_, err = svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: v.ID, Title: "Oil", ServiceDate: "2024-01-01", Mileage: &neg,
	})
	require.ErrorAs(t, err, &verr, "negative mileage")

	// another user's vehicle and a nonexistent vehicle look identical
	_, err = svc.CreateServiceRecord(ctx, other, models.CreateServiceRecordRequest{
		VehicleID: v.ID, Title: "Oil", ServiceDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: uuid.NewString(), Title: "Oil", ServiceDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceRecordListOrdering(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "order@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	for _, date := range []string{"2024-01-01", "2024-06-01", "2024-03-15"} {
		_, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
			VehicleID: v.ID, Title: "Service on " + date, ServiceDate: date,
		})
		require.NoError(t, err)
	}

	records, err := svc.ListServiceRecords(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].ServiceDate.Before(records[i].ServiceDate.Time),
			"records must be non-ascending by service_date")
	}
}

func TestServiceRecordListVehicleFilter(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "filter@example.com")
	other := seedUser(t, st, "filter2@example.com")
	mine := seedVehicle(t, svc, userID, "mine")
	second := seedVehicle(t, svc, userID, "spare")
	theirs := seedVehicle(t, svc, other, "theirs")

	_, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: mine.ID, Title: "Oil", ServiceDate: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = svc.CreateServiceRecord(ctx, other, models.CreateServiceRecordRequest{
		VehicleID: theirs.ID, Title: "Tires", ServiceDate: "2024-01-02",
	})
	require.NoError(t, err)

	records, err := svc.ListServiceRecords(ctx, userID, mine.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = svc.ListServiceRecords(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// filtering by a vehicle the caller does not own yields nothing,
	// never the other user's rows
	records, err = svc.ListServiceRecords(ctx, userID, theirs.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestServiceRecordPartialUpdate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "patch@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	rec, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: v.ID, Title: "Coolant flush", ServiceDate: "2024-02-02", Notes: "dealer",
	})
	require.NoError(t, err)

	got, err := svc.UpdateServiceRecord(ctx, userID, rec.ID,
		mustDecode[models.UpdateServiceRecordRequest](t, `{"notes":""}`))
	require.NoError(t, err)
	assert.Nil(t, got.Notes, "empty string clears the optional field")
	assert.Equal(t, "Coolant flush", got.Title, "absent key leaves the field alone")

	var verr *ValidationError
	_, err = svc.UpdateServiceRecord(ctx, userID, rec.ID,
		mustDecode[models.UpdateServiceRecordRequest](t, `{"title":""}`))
	require.ErrorAs(t, err, &verr)
	_, err = svc.UpdateServiceRecord(ctx, userID, rec.ID,
		mustDecode[models.UpdateServiceRecordRequest](t, `{"service_date":"not-a-date"}`))
	require.ErrorAs(t, err, &verr)
}

func TestMoveServiceRecordToForeignVehicle(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "move@example.com")
	other := seedUser(t, st, "move2@example.com")
	mine := seedVehicle(t, svc, userID, "mine")
	theirs := seedVehicle(t, svc, other, "theirs")

	rec, err := svc.CreateServiceRecord(ctx, userID, models.CreateServiceRecordRequest{
		VehicleID: mine.ID, Title: "Battery", ServiceDate: "2024-04-01",
	})
	require.NoError(t, err)

	_, err = svc.UpdateServiceRecord(ctx, userID, rec.ID,
		mustDecode[models.UpdateServiceRecordRequest](t, `{"vehicle_id":"`+theirs.ID+`"}`))
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := svc.GetServiceRecord(ctx, userID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.VehicleID, "failed move leaves the record where it was")
}

func TestReminderRequiresDueDateOrMileage(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "due@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	var verr *ValidationError
	_, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Inspection",
	})
	require.ErrorAs(t, err, &verr)

	mileage := 5000
	rem, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Oil change", DueMileage: &mileage,
	})
	require.NoError(t, err)
	assert.Nil(t, rem.DueDate)
	require.NotNil(t, rem.DueMileage)
	assert.Equal(t, 5000, *rem.DueMileage)
	assert.False(t, rem.IsCompleted)
}

func TestReminderCompletedFilter(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "completed@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	mileage := 1000
	open, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Open", DueMileage: &mileage,
	})
	require.NoError(t, err)
	done, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Done", DueMileage: &mileage,
	})
	require.NoError(t, err)
	_, err = svc.UpdateReminder(ctx, userID, done.ID,
		mustDecode[models.UpdateReminderRequest](t, `{"is_completed":true}`))
	require.NoError(t, err)

	completed := true
	reminders, err := svc.ListReminders(ctx, userID, "", &completed)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, done.ID, reminders[0].ID)

	completed = false
	reminders, err = svc.ListReminders(ctx, userID, "", &completed)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, open.ID, reminders[0].ID)

	reminders, err = svc.ListReminders(ctx, userID, "", nil)
	require.NoError(t, err)
	assert.Len(t, reminders, 2)
}

func TestReminderDueDateUpdate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "duedate@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	rem, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Registration", DueDate: "2025-01-31",
	})
	require.NoError(t, err)
	require.NotNil(t, rem.DueDate)
	assert.Equal(t, "2025-01-31", rem.DueDate.String())

	var verr *ValidationError
	_, err = svc.UpdateReminder(ctx, userID, rem.ID,
		mustDecode[models.UpdateReminderRequest](t, `{"due_date":"31/01/2025"}`))
	require.ErrorAs(t, err, &verr)

	got, err := svc.UpdateReminder(ctx, userID, rem.ID,
		mustDecode[models.UpdateReminderRequest](t, `{"due_date":""}`))
	require.NoError(t, err)
	assert.Nil(t, got.DueDate, "empty due_date clears the field")
}

func TestMoveReminderToForeignVehicle(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "remmove@example.com")
	other := seedUser(t, st, "remmove2@example.com")
	mine := seedVehicle(t, svc, userID, "mine")
	theirs := seedVehicle(t, svc, other, "theirs")

	mileage := 9000
	rem, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: mine.ID, Title: "Rotate tires", DueMileage: &mileage,
	})
	require.NoError(t, err)

	_, err = svc.UpdateReminder(ctx, userID, rem.ID,
		mustDecode[models.UpdateReminderRequest](t, `{"vehicle_id":"`+theirs.ID+`"}`))
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := svc.GetReminder(ctx, userID, rem.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.VehicleID)
}

func TestReminderAccessByNonOwner(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, st, "remowner@example.com")
	other := seedUser(t, st, "remowner2@example.com")
	v := seedVehicle(t, svc, userID, "daily")

	mileage := 3000
	rem, err := svc.CreateReminder(ctx, userID, models.CreateReminderRequest{
		VehicleID: v.ID, Title: "Air filter", DueMileage: &mileage,
	})
	require.NoError(t, err)

	_, err = svc.GetReminder(ctx, other, rem.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	err = svc.DeleteReminder(ctx, other, rem.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.GetReminder(ctx, userID, rem.ID)
	assert.NoError(t, err)
}
