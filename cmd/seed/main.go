package main

import (
	"log"
	"os"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/memory"
	"clinic-voice-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

// Migrates the clinic schema and loads the demo directory into postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&entity.Patient{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.WaitlistEntry{},
		&entity.PatientPreference{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	log.Println("Step 3: Seeding demo directory...")
	for _, patient := range memory.SeedPatients() {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(patient).Error; err != nil {
			log.Printf("Warn: Failed to seed patient %s: %v", patient.MRN, err)
		}
	}
	for _, doctor := range memory.SeedDoctors() {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(doctor).Error; err != nil {
			log.Printf("Warn: Failed to seed doctor %s: %v", doctor.Id, err)
		}
	}
	for _, apt := range memory.SeedAppointments() {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(apt).Error; err != nil {
			log.Printf("Warn: Failed to seed appointment %s: %v", apt.Id, err)
		}
	}

	log.Println("✅ Seed completed")
}
