package service

import (
	"context"
	"testing"

	"clinic-voice-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAppointment(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	apt, err := f.scheduling.Book(ctx, BookingRequest{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR002",
		Date:       "2026-03-01",
		TimeSlot:   "09:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, apt.Id)
	assert.Equal(t, "Dr. Ahmed Khalil", apt.DoctorName)
	assert.Equal(t, "Orthopedics", apt.Specialty)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentBooked)
}

func TestBookConflictingSlot(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	// Seeded fixture holds DR001 on 2026-02-15 at 10:00.
	_, err := f.scheduling.Book(ctx, BookingRequest{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR001",
		Date:       "2026-02-15",
		TimeSlot:   "10:00",
	})
	assert.ErrorIs(t, err, ErrBackendConflict)
	assert.Empty(t, f.publisher.types(), "no event for a failed booking")
}

func TestBookInvalidSlot(t *testing.T) {
	f := newTestFixture()

	_, err := f.scheduling.Book(context.Background(), BookingRequest{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR001",
		Date:       "2026-03-01",
		TimeSlot:   "13:30",
	})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestBookMalformedDate(t *testing.T) {
	f := newTestFixture()

	// "2026-3-1" would key a slot that conflict checks against "2026-03-01"
	// can never see.
	_, err := f.scheduling.Book(context.Background(), BookingRequest{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR001",
		Date:       "2026-3-1",
		TimeSlot:   "09:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, f.publisher.types())
}

func TestRescheduleMalformedDate(t *testing.T) {
	f := newTestFixture()

	_, err := f.scheduling.Reschedule(context.Background(), "MRN-5050", "APT-1001", "2026-2-16", "11:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, f.publisher.types())
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newTestFixture()

	_, err := f.scheduling.Book(context.Background(), BookingRequest{
		PatientMRN: "MRN-5001",
		DoctorId:   "DR999",
		Date:       "2026-03-01",
		TimeSlot:   "09:00",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookIdempotentReplay(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()
	req := BookingRequest{
		PatientMRN:     "MRN-5001",
		DoctorId:       "DR002",
		Date:           "2026-03-01",
		TimeSlot:       "09:00",
		IdempotencyKey: "turn-retry-key",
	}

	first, err := f.scheduling.Book(ctx, req)
	require.NoError(t, err)

	replay, err := f.scheduling.Book(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Id, replay.Id, "replay must not double-book")
	assert.Len(t, f.publisher.types(), 1, "replay must not re-emit the event")
}

func TestCheckAvailabilityExcludesBookedSlots(t *testing.T) {
	f := newTestFixture()

	open, err := f.scheduling.CheckAvailability(context.Background(), "DR001", "2026-02-15")
	require.NoError(t, err)
	assert.NotContains(t, open, "10:00")
	assert.Contains(t, open, "09:00")
	assert.Len(t, open, 5)
}

func TestRescheduleMovesAppointment(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	apt, err := f.scheduling.Reschedule(ctx, "MRN-5050", "APT-1001", "2026-02-16", "11:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-16", apt.Date)
	assert.Equal(t, "11:00", apt.Time)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentRescheduled)

	// The old slot is free again.
	open, err := f.scheduling.CheckAvailability(ctx, "DR001", "2026-02-15")
	require.NoError(t, err)
	assert.Contains(t, open, "10:00")
}

func TestRescheduleSomeoneElsesAppointment(t *testing.T) {
	f := newTestFixture()

	_, err := f.scheduling.Reschedule(context.Background(), "MRN-5001", "APT-1001", "2026-02-16", "11:00")
	assert.ErrorIs(t, err, ErrAppointmentNotFound, "ownership failures look like not-found")
}

func TestCancelAppointment(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	apt, err := f.scheduling.Cancel(ctx, "MRN-5050", "APT-1001")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", apt.Status)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentCancelled)

	open, err := f.scheduling.CheckAvailability(ctx, "DR001", "2026-02-15")
	require.NoError(t, err)
	assert.Contains(t, open, "10:00")
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newTestFixture()

	_, err := f.scheduling.Cancel(context.Background(), "MRN-5050", "APT-9999")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestJoinWaitlist(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	entry, err := f.scheduling.JoinWaitlist(ctx, "MRN-5001", "DR003", "2026-03-01,2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
	assert.Equal(t, "Dr. Fatima Hassan", entry.DoctorName)
	assert.Contains(t, f.publisher.types(), events.TypeWaitlistJoined)

	second, err := f.scheduling.JoinWaitlist(ctx, "MRN-5002", "DR003", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
}
