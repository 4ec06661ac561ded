package service

import (
	"context"
	"fmt"
	"time"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/repository/contract"
	"clinic-voice-be/pkg/events"
	pkgnats "clinic-voice-be/pkg/nats"
)

// Bookable consultation slots, on the hour.
var slotHours = []int{9, 10, 11, 14, 15, 16}

type BookingRequest struct {
	PatientMRN     string
	DoctorId       string
	Date           string // YYYY-MM-DD
	TimeSlot       string // HH:MM
	IdempotencyKey string
}

type ISchedulingService interface {
	SearchDoctors(ctx context.Context, specialty string) ([]*entity.Doctor, error)
	ListSpecialties(ctx context.Context) ([]string, error)
	CheckAvailability(ctx context.Context, doctorId, date string) ([]string, error)
	Book(ctx context.Context, req BookingRequest) (*entity.Appointment, error)
	Reschedule(ctx context.Context, mrn, appointmentId, newDate, newTime string) (*entity.Appointment, error)
	Cancel(ctx context.Context, mrn, appointmentId string) (*entity.Appointment, error)
	ListAppointments(ctx context.Context, mrn string) ([]*entity.Appointment, error)
	JoinWaitlist(ctx context.Context, mrn, doctorId, preferredDates string) (*entity.WaitlistEntry, error)
}

type schedulingService struct {
	doctorRepo      contract.DoctorRepository
	appointmentRepo contract.AppointmentRepository
	waitlistRepo    contract.WaitlistRepository
	publisher       IPublisherService
	natsPublisher   *pkgnats.Publisher // optional, nil when NATS is down
	logger          logger.ILogger
}

func NewSchedulingService(
	doctorRepo contract.DoctorRepository,
	appointmentRepo contract.AppointmentRepository,
	waitlistRepo contract.WaitlistRepository,
	publisher IPublisherService,
	natsPublisher *pkgnats.Publisher,
	logger logger.ILogger,
) ISchedulingService {
	return &schedulingService{
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		waitlistRepo:    waitlistRepo,
		publisher:       publisher,
		natsPublisher:   natsPublisher,
		logger:          logger,
	}
}

func (s *schedulingService) SearchDoctors(ctx context.Context, specialty string) ([]*entity.Doctor, error) {
	return s.doctorRepo.SearchBySpecialty(ctx, specialty)
}

func (s *schedulingService) ListSpecialties(ctx context.Context) ([]string, error) {
	return s.doctorRepo.ListSpecialties(ctx)
}

// CheckAvailability returns the open HH:MM slots for the doctor on the date.
func (s *schedulingService) CheckAvailability(ctx context.Context, doctorId, date string) ([]string, error) {
	doctor, err := s.doctorRepo.FindById(ctx, doctorId)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s: %w", doctorId, ErrDoctorNotFound)
	}
	if !isValidDate(date) {
		return nil, fmt.Errorf("invalid date %q: %w", date, ErrInvalidDate)
	}

	open := make([]string, 0, len(slotHours))
	for _, hour := range slotHours {
		slot := fmt.Sprintf("%02d:00", hour)
		conflict, err := s.appointmentRepo.FindConflict(ctx, doctorId, date, slot)
		if err != nil {
			return nil, err
		}
		if conflict == nil {
			open = append(open, slot)
		}
	}
	return open, nil
}

func (s *schedulingService) Book(ctx context.Context, req BookingRequest) (*entity.Appointment, error) {
	// A replayed booking returns the original appointment instead of
	// double-booking the caller.
	if req.IdempotencyKey != "" {
		existing, err := s.appointmentRepo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	doctor, err := s.doctorRepo.FindById(ctx, req.DoctorId)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s: %w", req.DoctorId, ErrDoctorNotFound)
	}
	if !isBookableSlot(req.TimeSlot) {
		return nil, ErrInvalidSlot
	}
	// Slots are keyed on the literal date string, so a variant spelling like
	// "2026-3-1" would dodge every conflict check against "2026-03-01".
	if !isValidDate(req.Date) {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, ErrInvalidDate)
	}

	conflict, err := s.appointmentRepo.FindConflict(ctx, req.DoctorId, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrBackendConflict
	}

	apt := &entity.Appointment{
		PatientMRN:     req.PatientMRN,
		DoctorId:       doctor.Id,
		DoctorName:     doctor.Name,
		Specialty:      doctor.Specialty,
		Date:           req.Date,
		Time:           req.TimeSlot,
		Status:         entity.AppointmentStatusConfirmed,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}
	if err := s.appointmentRepo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.emit(ctx, events.New(events.TypeAppointmentBooked, map[string]interface{}{
		"appointment_id": apt.Id,
		"patient_mrn":    apt.PatientMRN,
		"doctor_id":      apt.DoctorId,
		"doctor_name":    apt.DoctorName,
		"specialty":      apt.Specialty,
		"date":           apt.Date,
		"time":           apt.Time,
	}))
	return apt, nil
}

func (s *schedulingService) Reschedule(ctx context.Context, mrn, appointmentId, newDate, newTime string) (*entity.Appointment, error) {
	apt, err := s.ownedAppointment(ctx, mrn, appointmentId)
	if err != nil {
		return nil, err
	}
	if !isBookableSlot(newTime) {
		return nil, ErrInvalidSlot
	}
	if !isValidDate(newDate) {
		return nil, fmt.Errorf("invalid date %q: %w", newDate, ErrInvalidDate)
	}

	conflict, err := s.appointmentRepo.FindConflict(ctx, apt.DoctorId, newDate, newTime)
	if err != nil {
		return nil, err
	}
	if conflict != nil && conflict.Id != apt.Id {
		return nil, ErrBackendConflict
	}

	oldDate, oldTime := apt.Date, apt.Time
	apt.Date = newDate
	apt.Time = newTime
	apt.Status = entity.AppointmentStatusConfirmed
	if err := s.appointmentRepo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.emit(ctx, events.New(events.TypeAppointmentRescheduled, map[string]interface{}{
		"appointment_id": apt.Id,
		"patient_mrn":    apt.PatientMRN,
		"doctor_name":    apt.DoctorName,
		"old_date":       oldDate,
		"old_time":       oldTime,
		"date":           apt.Date,
		"time":           apt.Time,
	}))
	return apt, nil
}

func (s *schedulingService) Cancel(ctx context.Context, mrn, appointmentId string) (*entity.Appointment, error) {
	apt, err := s.ownedAppointment(ctx, mrn, appointmentId)
	if err != nil {
		return nil, err
	}

	apt.Status = entity.AppointmentStatusCancelled
	if err := s.appointmentRepo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.emit(ctx, events.New(events.TypeAppointmentCancelled, map[string]interface{}{
		"appointment_id": apt.Id,
		"patient_mrn":    apt.PatientMRN,
		"doctor_name":    apt.DoctorName,
		"date":           apt.Date,
		"time":           apt.Time,
	}))
	return apt, nil
}

func (s *schedulingService) ListAppointments(ctx context.Context, mrn string) ([]*entity.Appointment, error) {
	return s.appointmentRepo.FindByPatient(ctx, mrn)
}

func (s *schedulingService) JoinWaitlist(ctx context.Context, mrn, doctorId, preferredDates string) (*entity.WaitlistEntry, error) {
	doctor, err := s.doctorRepo.FindById(ctx, doctorId)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s: %w", doctorId, ErrDoctorNotFound)
	}

	entry := &entity.WaitlistEntry{
		PatientMRN:     mrn,
		DoctorId:       doctor.Id,
		DoctorName:     doctor.Name,
		PreferredDates: preferredDates,
		Status:         "waiting",
		CreatedAt:      time.Now(),
	}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.emit(ctx, events.New(events.TypeWaitlistJoined, map[string]interface{}{
		"waitlist_id": entry.Id,
		"patient_mrn": entry.PatientMRN,
		"doctor_name": entry.DoctorName,
		"position":    entry.Position,
	}))
	return entry, nil
}

func (s *schedulingService) ownedAppointment(ctx context.Context, mrn, appointmentId string) (*entity.Appointment, error) {
	apt, err := s.appointmentRepo.FindById(ctx, appointmentId)
	if err != nil {
		return nil, err
	}
	if apt == nil || apt.PatientMRN != mrn {
		// Not found and not-yours are indistinguishable to the caller
		return nil, ErrAppointmentNotFound
	}
	return apt, nil
}

// emit fans the event out to the in-process bus and, when connected, NATS.
// Neither failure blocks the booking path.
func (s *schedulingService) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn("scheduling", "failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
	if s.natsPublisher != nil {
		if err := s.natsPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("scheduling", "failed to publish event to NATS", map[string]interface{}{
				"event_type": event.EventType(),
				"error":      err.Error(),
			})
		}
	}
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func isBookableSlot(timeSlot string) bool {
	for _, hour := range slotHours {
		if timeSlot == fmt.Sprintf("%02d:00", hour) {
			return true
		}
	}
	return false
}
