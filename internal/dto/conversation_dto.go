package dto

import "time"

type SendMessageRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	SessionId         string   `json:"session_id"`
	Reply             string   `json:"reply"`
	VerificationState string   `json:"verification_state"`
	ToolsUsed         []string `json:"tools_used,omitempty"`
	ErrorCode         string   `json:"error_code,omitempty"`
}

type SessionStateResponse struct {
	SessionId         string                  `json:"session_id"`
	CreatedAt         time.Time               `json:"created_at"`
	LastActiveAt      time.Time               `json:"last_active_at"`
	ExpiresAt         time.Time               `json:"expires_at"`
	VerificationState string                  `json:"verification_state"`
	PatientName       string                  `json:"patient_name,omitempty"`
	VerifiedAt        *time.Time              `json:"verified_at,omitempty"`
	TurnCount         int                     `json:"turn_count"`
	PendingBooking    *PendingBookingResponse `json:"pending_booking,omitempty"`
}

type PendingBookingResponse struct {
	DoctorId string `json:"doctor_id,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeSlot string `json:"time_slot,omitempty"`
}

type HistoryTurnResponse struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	ToolsCalled []string  `json:"tools_called,omitempty"`
}
