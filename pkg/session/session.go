package session

import (
	"time"
)

// Turn roles stored in the conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Verification states. Only VERIFIED authorizes sensitive tool execution.
const (
	StateUnverified = "UNVERIFIED"
	StateOTPSent    = "OTP_SENT"
	StateVerified   = "VERIFIED"
)

// Turn is a single history entry. Append-only; there is no truncation policy
// for stored history (the agent context builder applies its own window).
type Turn struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	ToolsCalled []string  `json:"tools_called,omitempty"`
}

// PatientContext is populated once an identity lookup succeeds and the
// caller has been verified for this session.
type PatientContext struct {
	PatientID     string     `json:"patient_id"`
	DisplayName   string     `json:"display_name"`
	PhoneLastFour string     `json:"phone_last_four"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

// Verification is the embedded identity state machine instance.
type Verification struct {
	State        string     `json:"state"`
	CandidateMRN string     `json:"candidate_mrn,omitempty"`
	CodeHash     string     `json:"code_hash,omitempty"` // bcrypt hash of the active OTP
	IssuedAt     *time.Time `json:"issued_at,omitempty"`
	AttemptCount int        `json:"attempt_count"`
	PatientID    string     `json:"patient_id,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

// PendingBooking accumulates partial scheduling intent across turns before
// the caller confirms. Cleared on commit or abandonment; never authoritative.
type PendingBooking struct {
	DoctorID string `json:"doctor_id,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD
	TimeSlot string `json:"time_slot,omitempty"`
}

// Session is the durable record of one caller's ongoing conversation.
type Session struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActiveAt   time.Time       `json:"last_active_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	History        []Turn          `json:"history"`
	PatientContext *PatientContext `json:"patient_context,omitempty"`
	Verification   Verification    `json:"verification"`
	PendingBooking *PendingBooking `json:"pending_booking,omitempty"`
}

// Expired reports whether the record is logically dead.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AppendTurn records a history entry with the given role and content.
func (s *Session) AppendTurn(role, content string, toolsCalled []string) {
	s.History = append(s.History, Turn{
		Role:        role,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		ToolsCalled: toolsCalled,
	})
}

// ResetVerification drops any identity binding, e.g. when the agent starts a
// fresh lookup for a different patient.
func (s *Session) ResetVerification() {
	s.Verification = Verification{State: StateUnverified}
	s.PatientContext = nil
}
