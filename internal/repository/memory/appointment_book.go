package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"
)

type AppointmentBook struct {
	mu           sync.RWMutex
	appointments map[string]*entity.Appointment
	nextNum      int
}

var _ contract.AppointmentRepository = &AppointmentBook{}

func NewAppointmentBook() *AppointmentBook {
	book := &AppointmentBook{
		appointments: make(map[string]*entity.Appointment),
		nextNum:      1003,
	}
	for _, apt := range SeedAppointments() {
		book.appointments[apt.Id] = apt
	}
	return book
}

func (b *AppointmentBook) Create(_ context.Context, apt *entity.Appointment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if apt.Id == "" {
		apt.Id = fmt.Sprintf("APT-%d", b.nextNum)
		b.nextNum++
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = time.Now()
	}
	cp := *apt
	b.appointments[apt.Id] = &cp
	return nil
}

func (b *AppointmentBook) Update(_ context.Context, apt *entity.Appointment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.appointments[apt.Id]; !ok {
		return fmt.Errorf("appointment %s not found", apt.Id)
	}
	now := time.Now()
	apt.UpdatedAt = &now
	cp := *apt
	b.appointments[apt.Id] = &cp
	return nil
}

func (b *AppointmentBook) FindById(_ context.Context, id string) (*entity.Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if apt, ok := b.appointments[id]; ok {
		cp := *apt
		return &cp, nil
	}
	return nil, nil
}

func (b *AppointmentBook) FindByIdempotencyKey(_ context.Context, key string) (*entity.Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, apt := range b.appointments {
		if apt.IdempotencyKey != "" && apt.IdempotencyKey == key {
			cp := *apt
			return &cp, nil
		}
	}
	return nil, nil
}

func (b *AppointmentBook) FindByPatient(_ context.Context, mrn string) ([]*entity.Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var matches []*entity.Appointment
	for _, apt := range b.appointments {
		if apt.PatientMRN == mrn {
			cp := *apt
			matches = append(matches, &cp)
		}
	}
	return matches, nil
}

func (b *AppointmentBook) FindConflict(_ context.Context, doctorId, date, timeSlot string) (*entity.Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, apt := range b.appointments {
		if apt.DoctorId == doctorId && apt.Date == date && apt.Time == timeSlot && apt.Status == entity.AppointmentStatusConfirmed {
			cp := *apt
			return &cp, nil
		}
	}
	return nil, nil
}

func SeedAppointments() []*entity.Appointment {
	return []*entity.Appointment{
		{
			Id:         "APT-1001",
			PatientMRN: "MRN-5050",
			DoctorId:   "DR001",
			DoctorName: "Dr. Sarah Al-Mansoori",
			Specialty:  "Cardiology",
			Date:       "2026-02-15",
			Time:       "10:00",
			Status:     entity.AppointmentStatusConfirmed,
			CreatedAt:  time.Now(),
		},
		{
			Id:         "APT-1002",
			PatientMRN: "MRN-5050",
			DoctorId:   "DR005",
			DoctorName: "Dr. Layla Ibrahim",
			Specialty:  "General Medicine",
			Date:       "2026-02-20",
			Time:       "14:30",
			Status:     entity.AppointmentStatusConfirmed,
			CreatedAt:  time.Now(),
		},
	}
}
