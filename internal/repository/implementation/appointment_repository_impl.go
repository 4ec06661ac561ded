package implementation

import (
	"context"
	"errors"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AppointmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) contract.AppointmentRepository {
	return &AppointmentRepositoryImpl{db: db}
}

func (r *AppointmentRepositoryImpl) Create(ctx context.Context, apt *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(apt).Error
}

func (r *AppointmentRepositoryImpl) Update(ctx context.Context, apt *entity.Appointment) error {
	return r.db.WithContext(ctx).Save(apt).Error
}

func (r *AppointmentRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Appointment, error) {
	var apt entity.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&apt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &apt, nil
}

func (r *AppointmentRepositoryImpl) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Appointment, error) {
	var apt entity.Appointment
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&apt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &apt, nil
}

func (r *AppointmentRepositoryImpl) FindByPatient(ctx context.Context, mrn string) ([]*entity.Appointment, error) {
	var apts []*entity.Appointment
	if err := r.db.WithContext(ctx).
		Where("patient_mrn = ?", mrn).
		Order("date asc, time asc").
		Find(&apts).Error; err != nil {
		return nil, err
	}
	return apts, nil
}

func (r *AppointmentRepositoryImpl) FindConflict(ctx context.Context, doctorId, date, timeSlot string) (*entity.Appointment, error) {
	var apt entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ? AND status = ?",
			doctorId, date, timeSlot, entity.AppointmentStatusConfirmed).
		First(&apt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &apt, nil
}
