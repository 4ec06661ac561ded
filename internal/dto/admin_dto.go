package dto

import "time"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionSummaryResponse struct {
	SessionId         string    `json:"session_id"`
	VerificationState string    `json:"verification_state"`
	PatientName       string    `json:"patient_name,omitempty"`
	TurnCount         int       `json:"turn_count"`
	CreatedAt         time.Time `json:"created_at"`
	LastActiveAt      time.Time `json:"last_active_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}
