// internal/models/driver.go
package models

import (
	"time"
)

// Driver is both the login account and the trucking profile. Username and
// Email are nullable so that admin-created drivers can exist without login
// credentials while the unique indexes still hold.
type Driver struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username *string `gorm:"uniqueIndex;size:150" json:"username"`
	Password string  `gorm:"size:255" json:"-"` // bcrypt hash, never serialized
	IsAdmin  bool    `gorm:"not null;default:false" json:"is_admin"`

	FirstName     string  `gorm:"size:100" json:"first_name"`
	LastName      string  `gorm:"size:100" json:"last_name"`
	LicenseNumber string  `gorm:"uniqueIndex;size:50;not null" json:"license_number"`
	Phone         string  `gorm:"size:15" json:"phone"`
	Email         *string `gorm:"uniqueIndex;size:254" json:"email"`
	Company       string  `gorm:"size:255" json:"company"`
	Address       string  `gorm:"type:text" json:"address"`

	CurrentLocation  string   `gorm:"size:255" json:"current_location"`
	PickupLocation   string   `gorm:"size:255" json:"pickup_location"`
	DropoffLocation  string   `gorm:"size:255" json:"dropoff_location"`
	CurrentCycleUsed *float64 `json:"current_cycle_used"`
}
