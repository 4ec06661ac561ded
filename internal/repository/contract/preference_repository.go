package contract

import (
	"context"

	"clinic-voice-be/internal/entity"
)

type PreferenceRepository interface {
	Create(ctx context.Context, pref *entity.PatientPreference) error

	// SearchSimilar ranks the patient's preferences by cosine distance to the
	// query embedding.
	SearchSimilar(ctx context.Context, mrn string, embedding []float32, limit int) ([]*entity.PatientPreference, error)
}
