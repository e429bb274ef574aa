package config

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eld_logbook/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSeedAdmin(t *testing.T) {
	db := openTestDB(t)

	if err := SeedAdmin(db, "", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(db, "root", "rootpass"); err != nil {
		t.Fatal(err)
	}
	// A second run leaves the account alone.
	if err := SeedAdmin(db, "root", "rootpass"); err != nil {
		t.Fatal(err)
	}

	var admins []models.Driver
	if err := db.Find(&admins).Error; err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || !admins[0].IsAdmin || admins[0].LicenseNumber != "ADMIN-root" {
		t.Fatalf("drivers = %+v", admins)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("rootpass")); err != nil {
		t.Errorf("password not hashed: %v", err)
	}
}

func TestSeedAdminPromotesExistingDriver(t *testing.T) {
	db := openTestDB(t)
	username := "ops"
	if err := db.Create(&models.Driver{Username: &username, LicenseNumber: "OPS-1"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(db, "ops", "whatever"); err != nil {
		t.Fatal(err)
	}
	var d models.Driver
	if err := db.Where("username = ?", "ops").First(&d).Error; err != nil {
		t.Fatal(err)
	}
	if !d.IsAdmin {
		t.Error("existing driver not promoted")
	}
}

func TestSeedAdminRejectsLongPassword(t *testing.T) {
	db := openTestDB(t)
	long := string(make([]byte, 73))
	err := SeedAdmin(db, "root", long)
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
	var count int64
	db.Model(&models.Driver{}).Count(&count)
	if count != 0 {
		t.Errorf("created %d drivers", count)
	}
}
