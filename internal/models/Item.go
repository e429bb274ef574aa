package models

import (
	"time"
)

// Item is a standalone catalog entry unrelated to trips.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
