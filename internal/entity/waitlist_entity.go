package entity

import "time"

type WaitlistEntry struct {
	Id             string `gorm:"primaryKey;size:16"`
	PatientMRN     string `gorm:"index"`
	DoctorId       string `gorm:"index"`
	DoctorName     string
	PreferredDates string // Comma-separated YYYY-MM-DD
	Status         string // "waiting" | "notified"
	Position       int
	CreatedAt      time.Time
}
