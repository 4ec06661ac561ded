package contract

import (
	"context"

	"clinic-voice-be/internal/entity"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *entity.WaitlistEntry) error
	CountByDoctor(ctx context.Context, doctorId string) (int64, error)
}
