package entity

import "time"

type Patient struct {
	MRN        string `gorm:"primaryKey;size:16"`
	Name       string
	Phone      string `gorm:"index"`
	Email      string
	DOB        string // YYYY-MM-DD
	NationalID string // Stored masked
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// MaskedPhone hides the middle digits for read-back over the phone.
func (p *Patient) MaskedPhone() string {
	if len(p.Phone) < 8 {
		return p.Phone
	}
	return p.Phone[:5] + "****" + p.Phone[len(p.Phone)-3:]
}

// PhoneLastFour returns the trailing digits bound into the session context.
func (p *Patient) PhoneLastFour() string {
	if len(p.Phone) < 4 {
		return p.Phone
	}
	return p.Phone[len(p.Phone)-4:]
}
