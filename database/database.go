package database

import (
	"aula/config"
	"aula/models"
	courseModels "aula/models/course"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	// TranslateError lets the engine detect unique-key conflicts as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	runMigrations(db)

	Database = DbInstance{Db: db}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// Models lists every persisted entity, in dependency order. Shared with the
// test helpers so service tests migrate the same schema the server runs.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.SupportTicket{},
		&models.ReportSnapshot{},
		&courseModels.Course{},
		&courseModels.CourseTeacher{},
		&courseModels.Enrollment{},
		&courseModels.Module{},
		&courseModels.Simulation{},
		&courseModels.Content{},
		&courseModels.Exam{},
		&courseModels.Questionnaire{},
		&courseModels.Question{},
		&courseModels.Option{},
		&courseModels.Attempt{},
		&courseModels.Answer{},
		&courseModels.ModuleProgress{},
		&courseModels.SimulationProgress{},
	}
}
