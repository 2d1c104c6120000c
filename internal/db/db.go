package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/config"
	"github.com/esteticafabiane/clinic-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedServices(db); err != nil {
		log.Fatalf("failed to seed services: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Service{},
		&models.Product{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	return EnsureSlotIndex(db)
}

// EnsureSlotIndex cria o índice único parcial que garante no máximo um
// agendamento não cancelado por (data, hora). É ele quem fecha a
// corrida entre a checagem de conflito e o insert.
func EnsureSlotIndex(db *gorm.DB) error {
	return db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointment_slot
        ON appointments (appointment_date, appointment_time)
        WHERE status <> 'cancelled'
    `).Error
}
