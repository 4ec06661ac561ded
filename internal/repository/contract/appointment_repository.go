package contract

import (
	"context"

	"clinic-voice-be/internal/entity"
)

type AppointmentRepository interface {
	Create(ctx context.Context, apt *entity.Appointment) error
	Update(ctx context.Context, apt *entity.Appointment) error
	FindById(ctx context.Context, id string) (*entity.Appointment, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Appointment, error)
	FindByPatient(ctx context.Context, mrn string) ([]*entity.Appointment, error)

	// FindConflict returns the confirmed appointment occupying the slot, or
	// (nil, nil) when the slot is free.
	FindConflict(ctx context.Context, doctorId, date, timeSlot string) (*entity.Appointment, error)
}
