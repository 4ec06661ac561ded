package service

import "errors"

var (
	// ErrAgentUnavailable means the model backend could not produce a turn.
	// The caller maps it to 503 and the session is left untouched.
	ErrAgentUnavailable = errors.New("agent backend unavailable")

	// ErrBackendConflict means another booking already occupies the slot.
	ErrBackendConflict = errors.New("slot already booked")

	// ErrPatientNotFound means no patient record matched the lookup.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrAppointmentNotFound means the appointment id does not exist or does
	// not belong to the verified patient.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrDoctorNotFound means the doctor id is not in the directory.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInvalidSlot means the requested time is outside the clinic's
	// bookable slots.
	ErrInvalidSlot = errors.New("requested time is not a bookable slot")

	// ErrInvalidDate means the date is not a real YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)
