package entity

import "time"

const (
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

type Appointment struct {
	Id             string `gorm:"primaryKey;size:16"`
	PatientMRN     string `gorm:"index"`
	DoctorId       string `gorm:"index"`
	DoctorName     string
	Specialty      string
	Date           string `gorm:"index"` // YYYY-MM-DD
	Time           string // HH:MM
	Status         string
	IdempotencyKey string `gorm:"index"` // Dedupe key for commit retries
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
