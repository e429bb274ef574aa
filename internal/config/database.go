package config

import (
	"errors"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eld_logbook/internal/logger"
	"eld_logbook/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB opens the database described by s, migrates the schema and seeds
// the admin account when one is configured.
func InitDB(s *Settings) error {
	db, err := gorm.Open(dialector(s), &gorm.Config{
		Logger: logger.GormLogger(s.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Assign to global
	DB = db

	return SeedAdmin(db, s.AdminUsername, s.AdminPassword)
}

// dialector picks the postgres driver. pgx is the default; DB_DRIVER=postgres
// routes the same DSN through lib/pq instead.
func dialector(s *Settings) gorm.Dialector {
	if s.DBDriver == "postgres" {
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        s.DSN(),
		})
	}
	return postgres.Open(s.DSN())
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Driver{}, &models.Trip{}, &models.Log{}, &models.Item{})
}

// SeedAdmin makes sure an administrator with the given credentials exists.
// It does nothing when either value is empty.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var existing models.Driver
	err := db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin {
			return nil
		}
		logrus.WithField("username", username).Info("promoting existing driver to admin")
		return db.Model(&existing).Update("is_admin", true).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin %q: %w", username, err)
	}

	admin := models.Driver{
		Username:      &username,
		Password:      string(hash),
		LicenseNumber: "ADMIN-" + username,
		IsAdmin:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logrus.WithField("username", username).Info("admin account created")
	return nil
}
