package implementation

import (
	"context"
	"errors"
	"strings"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"

	"gorm.io/gorm"
)

type PatientRepositoryImpl struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) contract.PatientRepository {
	return &PatientRepositoryImpl{db: db}
}

func (r *PatientRepositoryImpl) FindByMRN(ctx context.Context, mrn string) (*entity.Patient, error) {
	var p entity.Patient
	if err := r.db.WithContext(ctx).Where("mrn = ?", strings.ToUpper(mrn)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*entity.Patient, error) {
	var p entity.Patient
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
