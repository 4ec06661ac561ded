package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"
)

// PatientDirectory is the in-memory patient collaborator used in demo mode
// and in tests. Seeded with the fixture panel; safe for concurrent turns.
type PatientDirectory struct {
	mu       sync.RWMutex
	patients map[string]*entity.Patient // keyed by MRN
	byPhone  map[string]string          // phone -> MRN reverse index
}

var _ contract.PatientRepository = &PatientDirectory{}

func NewPatientDirectory() *PatientDirectory {
	d := &PatientDirectory{
		patients: make(map[string]*entity.Patient),
		byPhone:  make(map[string]string),
	}
	for _, p := range SeedPatients() {
		d.patients[p.MRN] = p
		d.byPhone[p.Phone] = p.MRN
	}
	return d
}

func (d *PatientDirectory) FindByMRN(_ context.Context, mrn string) (*entity.Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.patients[strings.ToUpper(mrn)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (d *PatientDirectory) FindByPhone(_ context.Context, phone string) (*entity.Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	mrn, ok := d.byPhone[phone]
	if !ok {
		return nil, nil
	}
	cp := *d.patients[mrn]
	return &cp, nil
}

// SeedPatients returns the demo patient panel. Shared with cmd/seed so the
// Postgres directory carries the same fixtures.
func SeedPatients() []*entity.Patient {
	now := time.Now().UTC()
	return []*entity.Patient{
		{MRN: "MRN-5001", Name: "Khalid Al-Rashid", Phone: "+971501234567", Email: "khalid.alrashid@example.com", DOB: "1985-03-12", NationalID: "784-****-*****-0", CreatedAt: now},
		{MRN: "MRN-5050", Name: "Hamza El-Ghoujdami", Phone: "+971544842805", Email: "hamza.elghoujdami@example.com", DOB: "1993-05-28", NationalID: "784-****-*****-1", CreatedAt: now},
		{MRN: "MRN-5002", Name: "Mariam Abdullah", Phone: "+971509876543", Email: "mariam.abdullah@example.com", DOB: "1990-07-22", NationalID: "784-****-*****-2", CreatedAt: now},
		{MRN: "MRN-5003", Name: "Hassan Youssef", Phone: "+971507654321", Email: "hassan.youssef@example.com", DOB: "1978-11-05", NationalID: "784-****-*****-3", CreatedAt: now},
	}
}
