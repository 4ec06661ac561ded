package contract

import (
	"context"

	"clinic-voice-be/internal/entity"
)

type DoctorRepository interface {
	FindById(ctx context.Context, id string) (*entity.Doctor, error)
	SearchBySpecialty(ctx context.Context, specialty string) ([]*entity.Doctor, error)
	ListSpecialties(ctx context.Context) ([]string, error)
}
