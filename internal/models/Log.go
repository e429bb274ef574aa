package models

// Log is one day's duty-status totals for a trip. All durations are hours.
type Log struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TripID uint `gorm:"index;not null" json:"trip"`

	Date        Date    `gorm:"index;not null" json:"date"`
	TotalMiles  float64 `gorm:"not null" json:"total_miles"`
	DrivingTime float64 `gorm:"not null" json:"driving_time"`
	OnDutyTime  float64 `gorm:"not null" json:"on_duty_time"`
	OffDutyTime float64 `gorm:"not null" json:"off_duty_time"`
	RestBreaks  float64 `gorm:"not null" json:"rest_breaks"`
}

// DefaultRestBreaks is applied when a log is created without rest_breaks.
const DefaultRestBreaks = 0.5
