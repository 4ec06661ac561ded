package memory

import (
	"context"
	"strings"
	"sync"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"
)

type DoctorDirectory struct {
	mu      sync.RWMutex
	doctors []*entity.Doctor
}

var _ contract.DoctorRepository = &DoctorDirectory{}

func NewDoctorDirectory() *DoctorDirectory {
	return &DoctorDirectory{doctors: SeedDoctors()}
}

func (d *DoctorDirectory) FindById(_ context.Context, id string) (*entity.Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, doc := range d.doctors {
		if doc.Id == id {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *DoctorDirectory) SearchBySpecialty(_ context.Context, specialty string) ([]*entity.Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var matches []*entity.Doctor
	needle := strings.ToLower(specialty)
	for _, doc := range d.doctors {
		if strings.Contains(strings.ToLower(doc.Specialty), needle) {
			cp := *doc
			matches = append(matches, &cp)
		}
	}
	return matches, nil
}

func (d *DoctorDirectory) ListSpecialties(_ context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := make(map[string]bool)
	var specialties []string
	for _, doc := range d.doctors {
		if !seen[doc.Specialty] {
			seen[doc.Specialty] = true
			specialties = append(specialties, doc.Specialty)
		}
	}
	return specialties, nil
}

func SeedDoctors() []*entity.Doctor {
	return []*entity.Doctor{
		{Id: "DR001", Name: "Dr. Sarah Al-Mansoori", Specialty: "Cardiology", Clinic: "Heart Center - Floor 3"},
		{Id: "DR002", Name: "Dr. Ahmed Khalil", Specialty: "Orthopedics", Clinic: "Bone & Joint - Floor 2"},
		{Id: "DR003", Name: "Dr. Fatima Hassan", Specialty: "Dermatology", Clinic: "Skin Care - Floor 1"},
		{Id: "DR004", Name: "Dr. Omar Nasser", Specialty: "Pediatrics", Clinic: "Children's Wing - Floor 4"},
		{Id: "DR005", Name: "Dr. Layla Ibrahim", Specialty: "General Medicine", Clinic: "Primary Care - Floor 1"},
		{Id: "DR006", Name: "Dr. Yousef Qasim", Specialty: "Cardiology", Clinic: "Heart Center - Floor 3"},
	}
}
