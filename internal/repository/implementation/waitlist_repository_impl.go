package implementation

import (
	"context"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"

	"gorm.io/gorm"
)

type WaitlistRepositoryImpl struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) contract.WaitlistRepository {
	return &WaitlistRepositoryImpl{db: db}
}

func (r *WaitlistRepositoryImpl) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *WaitlistRepositoryImpl) CountByDoctor(ctx context.Context, doctorId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.WaitlistEntry{}).
		Where("doctor_id = ? AND status = ?", doctorId, "waiting").
		Count(&count).Error
	return count, err
}
