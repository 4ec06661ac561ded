package implementation

import (
	"context"
	"errors"
	"strings"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"

	"gorm.io/gorm"
)

type DoctorRepositoryImpl struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) contract.DoctorRepository {
	return &DoctorRepositoryImpl{db: db}
}

func (r *DoctorRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Doctor, error) {
	var d entity.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepositoryImpl) SearchBySpecialty(ctx context.Context, specialty string) ([]*entity.Doctor, error) {
	var doctors []*entity.Doctor
	if err := r.db.WithContext(ctx).
		Where("LOWER(specialty) LIKE ?", "%"+strings.ToLower(specialty)+"%").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepositoryImpl) ListSpecialties(ctx context.Context) ([]string, error) {
	var specialties []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Doctor{}).
		Distinct("specialty").
		Pluck("specialty", &specialties).Error; err != nil {
		return nil, err
	}
	return specialties, nil
}
