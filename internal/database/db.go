package database

import (
	"log"

	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres handle and runs migrations. The handle is
// returned to main and injected into services; nothing reads it globally.
func Connect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	return db
}

// Migrate creates/updates the schema. Split out so tests can run it
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.BaseResume{},
		&models.Job{},
		&models.ResumeVersion{},
		&models.JobApplication{},
		&models.EmailLog{},
		&models.ProcessedEmail{},
	)
}
