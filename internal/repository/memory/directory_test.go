package memory

import (
	"context"
	"testing"

	"clinic-voice-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientDirectoryLookup(t *testing.T) {
	dir := NewPatientDirectory()
	ctx := context.Background()

	byMRN, err := dir.FindByMRN(ctx, "mrn-5050")
	require.NoError(t, err)
	require.NotNil(t, byMRN, "MRN lookup is case-insensitive")
	assert.Equal(t, "Hamza El-Ghoujdami", byMRN.Name)

	byPhone, err := dir.FindByPhone(ctx, "+971501234567")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, "MRN-5001", byPhone.MRN)

	missing, err := dir.FindByMRN(ctx, "MRN-9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDoctorDirectorySearch(t *testing.T) {
	dir := NewDoctorDirectory()
	ctx := context.Background()

	cardio, err := dir.SearchBySpecialty(ctx, "cardio")
	require.NoError(t, err)
	assert.Len(t, cardio, 2, "partial, case-insensitive specialty match")

	none, err := dir.SearchBySpecialty(ctx, "neurosurgery")
	require.NoError(t, err)
	assert.Empty(t, none)

	doc, err := dir.FindById(ctx, "DR004")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Pediatrics", doc.Specialty)
}

func TestDoctorDirectorySpecialtiesAreDeduplicated(t *testing.T) {
	dir := NewDoctorDirectory()

	specialties, err := dir.ListSpecialties(context.Background())
	require.NoError(t, err)
	assert.Len(t, specialties, 5)
	assert.Contains(t, specialties, "Cardiology")
}

func TestWaitlistPositions(t *testing.T) {
	store := NewWaitlistStore()
	ctx := context.Background()

	first := &entity.WaitlistEntry{PatientMRN: "MRN-5001", DoctorId: "DR001", PreferredDates: "2026-03-01"}
	require.NoError(t, store.Create(ctx, first))
	assert.Equal(t, "WL-0001", first.Id)
	assert.Equal(t, 1, first.Position)

	second := &entity.WaitlistEntry{PatientMRN: "MRN-5050", DoctorId: "DR001", PreferredDates: "2026-03-01"}
	require.NoError(t, store.Create(ctx, second))
	assert.Equal(t, 2, second.Position)

	otherDoctor := &entity.WaitlistEntry{PatientMRN: "MRN-5002", DoctorId: "DR002", PreferredDates: "2026-03-01"}
	require.NoError(t, store.Create(ctx, otherDoctor))
	assert.Equal(t, 1, otherDoctor.Position, "positions are per doctor")

	count, err := store.CountByDoctor(ctx, "DR001")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
