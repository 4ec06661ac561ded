package contract

import (
	"context"

	"clinic-voice-be/internal/entity"
)

// PatientRepository is the patient lookup collaborator. Both finders return
// (nil, nil) when no record matches.
type PatientRepository interface {
	FindByMRN(ctx context.Context, mrn string) (*entity.Patient, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Patient, error)
}
