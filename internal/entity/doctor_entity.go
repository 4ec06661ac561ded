package entity

type Doctor struct {
	Id        string `gorm:"primaryKey;size:8"`
	Name      string
	Specialty string `gorm:"index"`
	Clinic    string
}
