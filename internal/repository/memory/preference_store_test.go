package memory

import (
	"context"
	"testing"

	"clinic-voice-be/internal/entity"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storePreference(t *testing.T, store *PreferenceStore, mrn, content string, embedding []float32) *entity.PatientPreference {
	t.Helper()
	pref := &entity.PatientPreference{
		PatientMRN: mrn,
		Content:    content,
		Embedding:  pgvector.NewVector(embedding),
	}
	require.NoError(t, store.Create(context.Background(), pref))
	return pref
}

func TestPreferenceStoreAssignsId(t *testing.T) {
	store := NewPreferenceStore()
	pref := storePreference(t, store, "MRN-5050", "prefers morning appointments", []float32{1, 0, 0})
	assert.NotEqual(t, uuid.Nil, pref.Id)
}

func TestPreferenceStoreRanksByCosineSimilarity(t *testing.T) {
	store := NewPreferenceStore()
	morning := storePreference(t, store, "MRN-5050", "prefers morning appointments", []float32{1, 0, 0})
	wheelchair := storePreference(t, store, "MRN-5050", "needs wheelchair access", []float32{0, 1, 0})
	storePreference(t, store, "MRN-5050", "allergic to penicillin", []float32{0, 0, 1})

	results, err := store.SearchSimilar(context.Background(), "MRN-5050", []float32{0.9, 0.4, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, morning.Id, results[0].Id)
	assert.Equal(t, wheelchair.Id, results[1].Id)
}

func TestPreferenceStoreScopedToPatient(t *testing.T) {
	store := NewPreferenceStore()
	storePreference(t, store, "MRN-5050", "prefers morning appointments", []float32{1, 0, 0})
	storePreference(t, store, "MRN-5001", "prefers evening appointments", []float32{1, 0, 0})

	results, err := store.SearchSimilar(context.Background(), "MRN-5001", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "MRN-5001", results[0].PatientMRN)
}

func TestPreferenceStoreEmpty(t *testing.T) {
	store := NewPreferenceStore()

	results, err := store.SearchSimilar(context.Background(), "MRN-5050", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
