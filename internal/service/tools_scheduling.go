package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
)

type searchDoctorsArgs struct {
	Specialty string `json:"specialty"`
}

type checkAvailabilityArgs struct {
	DoctorId string `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
}

type bookAppointmentArgs struct {
	DoctorId string `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
}

type rescheduleAppointmentArgs struct {
	AppointmentId string `json:"appointment_id" validate:"required"`
	NewDate       string `json:"new_date" validate:"required"`
	NewTime       string `json:"new_time" validate:"required"`
}

type cancelAppointmentArgs struct {
	AppointmentId string `json:"appointment_id" validate:"required"`
}

type addToWaitlistArgs struct {
	DoctorId       string `json:"doctor_id" validate:"required"`
	PreferredDates string `json:"preferred_dates"`
}

func (t *Toolset) registerSchedulingTools(registry *toolgate.Registry) {
	registry.Register(&toolgate.Tool{
		Name:        "search_doctors",
		Description: "Search the doctor directory by specialty. With no specialty, lists the available specialties.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters:  objectSchema(map[string]interface{}{"specialty": stringProp("Specialty to search, e.g. Cardiology")}),
		Handler:     t.searchDoctors,
	})

	registry.Register(&toolgate.Tool{
		Name:        "check_availability",
		Description: "List the open appointment slots for a doctor on a given date.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters: objectSchema(map[string]interface{}{
			"doctor_id": stringProp("Doctor id, e.g. DR001"),
			"date":      stringProp("Date in YYYY-MM-DD"),
		}, "doctor_id", "date"),
		Handler: t.checkAvailability,
	})

	registry.Register(&toolgate.Tool{
		Name:        "book_appointment",
		Description: "Book an appointment for the verified patient. Requires identity verification.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters: objectSchema(map[string]interface{}{
			"doctor_id": stringProp("Doctor id, e.g. DR001"),
			"date":      stringProp("Date in YYYY-MM-DD"),
			"time":      stringProp("Slot time in HH:MM, 24-hour"),
		}, "doctor_id", "date", "time"),
		Handler: t.bookAppointment,
	})

	registry.Register(&toolgate.Tool{
		Name:        "reschedule_appointment",
		Description: "Move an existing appointment of the verified patient to a new date and time.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters: objectSchema(map[string]interface{}{
			"appointment_id": stringProp("Appointment id, e.g. APT-1001"),
			"new_date":       stringProp("New date in YYYY-MM-DD"),
			"new_time":       stringProp("New slot time in HH:MM"),
		}, "appointment_id", "new_date", "new_time"),
		Handler: t.rescheduleAppointment,
	})

	registry.Register(&toolgate.Tool{
		Name:        "cancel_appointment",
		Description: "Cancel an existing appointment of the verified patient.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters:  objectSchema(map[string]interface{}{"appointment_id": stringProp("Appointment id, e.g. APT-1001")}, "appointment_id"),
		Handler:     t.cancelAppointment,
	})

	registry.Register(&toolgate.Tool{
		Name:        "list_appointments",
		Description: "List the verified patient's appointments.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters:  objectSchema(map[string]interface{}{}),
		Handler:     t.listAppointments,
	})

	registry.Register(&toolgate.Tool{
		Name:        "add_to_waitlist",
		Description: "Add the verified patient to a doctor's waitlist when no slot fits.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters: objectSchema(map[string]interface{}{
			"doctor_id":       stringProp("Doctor id, e.g. DR003"),
			"preferred_dates": stringProp("Free-form preferred dates, e.g. 'any weekday morning'"),
		}, "doctor_id"),
		Handler: t.addToWaitlist,
	})
}

func (t *Toolset) searchDoctors(ctx context.Context, _ *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req searchDoctorsArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	if req.Specialty == "" {
		specialties, err := t.scheduling.ListSpecialties(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"specialties": specialties}, nil
	}

	doctors, err := t.scheduling.SearchDoctors(ctx, req.Specialty)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(doctors))
	for _, d := range doctors {
		results = append(results, map[string]interface{}{
			"doctor_id": d.Id,
			"name":      d.Name,
			"specialty": d.Specialty,
			"clinic":    d.Clinic,
		})
	}
	return map[string]interface{}{"doctors": results}, nil
}

func (t *Toolset) checkAvailability(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req checkAvailabilityArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	slots, err := t.scheduling.CheckAvailability(ctx, req.DoctorId, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return map[string]interface{}{"error": "DOCTOR_NOT_FOUND", "message": err.Error()}, nil
		case errors.Is(err, ErrInvalidDate):
			return map[string]interface{}{"error": "INVALID_DATE", "message": "dates must be in YYYY-MM-DD form"}, nil
		default:
			return nil, err
		}
	}

	// The caller is shopping for a slot: remember the doctor and date so the
	// intent survives the turn even before a slot is chosen.
	sess.PendingBooking = &session.PendingBooking{DoctorID: req.DoctorId, Date: req.Date}

	return map[string]interface{}{
		"doctor_id":       req.DoctorId,
		"date":            req.Date,
		"available_slots": slots,
	}, nil
}

func (t *Toolset) bookAppointment(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req bookAppointmentArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	sess.PendingBooking = &session.PendingBooking{DoctorID: req.DoctorId, Date: req.Date, TimeSlot: req.Time}

	apt, err := t.scheduling.Book(ctx, BookingRequest{
		PatientMRN:     sess.Verification.PatientID,
		DoctorId:       req.DoctorId,
		Date:           req.Date,
		TimeSlot:       req.Time,
		IdempotencyKey: bookingIdempotencyKey(sess.ID, req.DoctorId, req.Date, req.Time),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBackendConflict):
			return map[string]interface{}{
				"error":   "BACKEND_CONFLICT",
				"message": "that slot was just taken; offer another time",
			}, nil
		case errors.Is(err, ErrInvalidSlot):
			return map[string]interface{}{
				"error":   "INVALID_SLOT",
				"message": "bookable slots are 09:00, 10:00, 11:00, 14:00, 15:00 and 16:00",
			}, nil
		case errors.Is(err, ErrInvalidDate):
			return map[string]interface{}{"error": "INVALID_DATE", "message": "dates must be in YYYY-MM-DD form"}, nil
		case errors.Is(err, ErrDoctorNotFound):
			return map[string]interface{}{"error": "DOCTOR_NOT_FOUND", "message": err.Error()}, nil
		default:
			return nil, err
		}
	}
	sess.PendingBooking = nil // committed
	return appointmentPayload(apt, "appointment booked"), nil
}

func (t *Toolset) rescheduleAppointment(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req rescheduleAppointmentArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	apt, err := t.scheduling.Reschedule(ctx, sess.Verification.PatientID, req.AppointmentId, req.NewDate, req.NewTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			return map[string]interface{}{"error": "APPOINTMENT_NOT_FOUND", "message": "no such appointment on this patient's record"}, nil
		case errors.Is(err, ErrBackendConflict):
			return map[string]interface{}{"error": "BACKEND_CONFLICT", "message": "the new slot is already taken"}, nil
		case errors.Is(err, ErrInvalidSlot):
			return map[string]interface{}{"error": "INVALID_SLOT", "message": "bookable slots are 09:00, 10:00, 11:00, 14:00, 15:00 and 16:00"}, nil
		case errors.Is(err, ErrInvalidDate):
			return map[string]interface{}{"error": "INVALID_DATE", "message": "dates must be in YYYY-MM-DD form"}, nil
		default:
			return nil, err
		}
	}
	return appointmentPayload(apt, "appointment rescheduled"), nil
}

func (t *Toolset) cancelAppointment(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req cancelAppointmentArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	apt, err := t.scheduling.Cancel(ctx, sess.Verification.PatientID, req.AppointmentId)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return map[string]interface{}{"error": "APPOINTMENT_NOT_FOUND", "message": "no such appointment on this patient's record"}, nil
		}
		return nil, err
	}
	return appointmentPayload(apt, "appointment cancelled"), nil
}

func (t *Toolset) listAppointments(ctx context.Context, sess *session.Session, _ json.RawMessage) (map[string]interface{}, error) {
	appointments, err := t.scheduling.ListAppointments(ctx, sess.Verification.PatientID)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(appointments))
	for _, apt := range appointments {
		results = append(results, map[string]interface{}{
			"appointment_id": apt.Id,
			"doctor_name":    apt.DoctorName,
			"specialty":      apt.Specialty,
			"date":           apt.Date,
			"time":           apt.Time,
			"status":         apt.Status,
		})
	}
	return map[string]interface{}{"appointments": results}, nil
}

func (t *Toolset) addToWaitlist(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req addToWaitlistArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	entry, err := t.scheduling.JoinWaitlist(ctx, sess.Verification.PatientID, req.DoctorId, req.PreferredDates)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return map[string]interface{}{"error": "DOCTOR_NOT_FOUND", "message": err.Error()}, nil
		}
		return nil, err
	}
	return map[string]interface{}{
		"waitlist_id": entry.Id,
		"doctor_name": entry.DoctorName,
		"position":    entry.Position,
		"message":     "the patient will be contacted when a slot opens",
	}, nil
}

func appointmentPayload(apt *entity.Appointment, message string) map[string]interface{} {
	return map[string]interface{}{
		"appointment_id": apt.Id,
		"doctor_name":    apt.DoctorName,
		"specialty":      apt.Specialty,
		"date":           apt.Date,
		"time":           apt.Time,
		"status":         apt.Status,
		"message":        message,
	}
}

// bookingIdempotencyKey makes a model retry of the same booking within one
// session land on the already-created appointment.
func bookingIdempotencyKey(sessionID, doctorId, date, timeSlot string) string {
	sum := sha256.Sum256([]byte(sessionID + "|" + doctorId + "|" + date + "|" + timeSlot))
	return hex.EncodeToString(sum[:])
}
