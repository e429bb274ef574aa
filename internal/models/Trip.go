package models

import (
	"time"
)

// Trip is a planned haul between three free-text locations.
type Trip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CurrentLocation  string  `gorm:"size:255;not null" json:"current_location"`
	PickupLocation   string  `gorm:"size:255;not null" json:"pickup_location"`
	DropoffLocation  string  `gorm:"size:255;not null" json:"dropoff_location"`
	CurrentCycleUsed float64 `gorm:"not null" json:"current_cycle_used"`

	// Optional planned route, a LINESTRING encoded as WKB.
	// Clients send and receive GeoJSON; see controllers.toTripResponse.
	RouteGeometry []byte `gorm:"type:bytea" json:"-"`

	// Associations
	Logs []Log `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
