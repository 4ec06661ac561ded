package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// PatientPreference is a long-term memory item scoped to a verified patient
// (e.g. "prefers morning appointments", "needs wheelchair access").
type PatientPreference struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PatientMRN string          `gorm:"index;size:16"`
	Content    string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	Metadata   datatypes.JSON
	CreatedAt  time.Time
}

func (PatientPreference) TableName() string {
	return "patient_preferences"
}
