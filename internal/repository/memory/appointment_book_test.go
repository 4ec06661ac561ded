package memory

import (
	"context"
	"testing"
	"time"

	"clinic-voice-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentBookAssignsIds(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	apt := &entity.Appointment{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR002",
		Date:       "2026-03-01",
		Time:       "09:00",
		Status:     entity.AppointmentStatusConfirmed,
	}
	require.NoError(t, book.Create(ctx, apt))
	assert.Equal(t, "APT-1003", apt.Id)

	second := &entity.Appointment{PatientMRN: "MRN-5001", DoctorId: "DR002", Date: "2026-03-01", Time: "10:00"}
	require.NoError(t, book.Create(ctx, second))
	assert.Equal(t, "APT-1004", second.Id)
}

func TestAppointmentBookFindConflict(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	// Seeded fixture: DR001 on 2026-02-15 at 10:00 is taken.
	conflict, err := book.FindConflict(ctx, "DR001", "2026-02-15", "10:00")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "APT-1001", conflict.Id)

	free, err := book.FindConflict(ctx, "DR001", "2026-02-15", "11:00")
	require.NoError(t, err)
	assert.Nil(t, free)
}

func TestAppointmentBookCancelledSlotIsFree(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	apt, err := book.FindById(ctx, "APT-1001")
	require.NoError(t, err)
	require.NotNil(t, apt)
	apt.Status = entity.AppointmentStatusCancelled
	require.NoError(t, book.Update(ctx, apt))

	conflict, err := book.FindConflict(ctx, "DR001", "2026-02-15", "10:00")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestAppointmentBookUpdateStampsUpdatedAt(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	apt, err := book.FindById(ctx, "APT-1001")
	require.NoError(t, err)
	require.Nil(t, apt.UpdatedAt)

	apt.Status = entity.AppointmentStatusCancelled
	require.NoError(t, book.Update(ctx, apt))

	stored, err := book.FindById(ctx, "APT-1001")
	require.NoError(t, err)
	require.NotNil(t, stored.UpdatedAt)
	assert.WithinDuration(t, time.Now(), *stored.UpdatedAt, time.Minute)
}

func TestAppointmentBookIdempotencyLookup(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	apt := &entity.Appointment{
		PatientMRN:     "MRN-5001",
		DoctorId:       "DR003",
		Date:           "2026-03-02",
		Time:           "14:00",
		Status:         entity.AppointmentStatusConfirmed,
		IdempotencyKey: "abc123",
	}
	require.NoError(t, book.Create(ctx, apt))

	found, err := book.FindByIdempotencyKey(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, apt.Id, found.Id)

	missing, err := book.FindByIdempotencyKey(ctx, "never-issued")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppointmentBookFindByPatient(t *testing.T) {
	book := NewAppointmentBook()

	appointments, err := book.FindByPatient(context.Background(), "MRN-5050")
	require.NoError(t, err)
	assert.Len(t, appointments, 2)

	none, err := book.FindByPatient(context.Background(), "MRN-5999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppointmentBookCopiesOut(t *testing.T) {
	book := NewAppointmentBook()
	ctx := context.Background()

	apt, err := book.FindById(ctx, "APT-1001")
	require.NoError(t, err)
	apt.Status = entity.AppointmentStatusCancelled // mutate the returned copy only

	again, err := book.FindById(ctx, "APT-1001")
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusConfirmed, again.Status)
}
