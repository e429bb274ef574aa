package controllers

import (
	"math"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eld_logbook/internal/config"
	"eld_logbook/internal/models"
)

// Property-carrying driver limits, in hours.
const (
	maxDrivingHoursPerDay = 11.0
	maxOnDutyHoursPerDay  = 14.0
	cycleLimitHours       = 70.0
)

// DaySummary totals the logs recorded for one calendar day.
type DaySummary struct {
	Date                  models.Date `json:"date"`
	TotalMiles            float64     `json:"total_miles"`
	DrivingHours          float64     `json:"driving_hours"`
	OnDutyHours           float64     `json:"on_duty_hours"`
	OffDutyHours          float64     `json:"off_duty_hours"`
	RestBreaks            float64     `json:"rest_breaks"`
	RemainingDrivingHours float64     `json:"remaining_driving_hours"`
	RemainingOnDutyHours  float64     `json:"remaining_on_duty_hours"`
}

// TripSummary is the aggregate returned by GET /trips/:id/summary/.
type TripSummary struct {
	TripID              uint         `json:"trip"`
	Days                int          `json:"days"`
	TotalMiles          float64      `json:"total_miles"`
	DrivingHours        float64      `json:"driving_hours"`
	OnDutyHours         float64      `json:"on_duty_hours"`
	OffDutyHours        float64      `json:"off_duty_hours"`
	RestBreaks          float64      `json:"rest_breaks"`
	CycleHoursUsed      float64      `json:"cycle_hours_used"`
	CycleHoursRemaining float64      `json:"cycle_hours_remaining"`
	RouteMiles          float64      `json:"route_miles"`
	Daily               []DaySummary `json:"daily"`
}

// summarizeTrip aggregates logs per day. On-duty hours include driving time.
func summarizeTrip(trip models.Trip, logs []models.Log) TripSummary {
	byDay := make(map[string]*DaySummary)
	for _, l := range logs {
		key := l.Date.String()
		day, ok := byDay[key]
		if !ok {
			day = &DaySummary{Date: l.Date}
			byDay[key] = day
		}
		day.TotalMiles += l.TotalMiles
		day.DrivingHours += l.DrivingTime
		day.OnDutyHours += l.DrivingTime + l.OnDutyTime
		day.OffDutyHours += l.OffDutyTime
		day.RestBreaks += l.RestBreaks
	}

	s := TripSummary{TripID: trip.ID, Daily: make([]DaySummary, 0, len(byDay))}
	for _, day := range byDay {
		day.RemainingDrivingHours = math.Max(0, maxDrivingHoursPerDay-day.DrivingHours)
		day.RemainingOnDutyHours = math.Max(0, maxOnDutyHoursPerDay-day.OnDutyHours)

		s.TotalMiles += day.TotalMiles
		s.DrivingHours += day.DrivingHours
		s.OnDutyHours += day.OnDutyHours
		s.OffDutyHours += day.OffDutyHours
		s.RestBreaks += day.RestBreaks
		s.Daily = append(s.Daily, *day)
	}
	sort.Slice(s.Daily, func(i, j int) bool {
		return s.Daily[i].Date.Time().Before(s.Daily[j].Date.Time())
	})

	s.Days = len(s.Daily)
	s.CycleHoursUsed = trip.CurrentCycleUsed + s.OnDutyHours
	s.CycleHoursRemaining = math.Max(0, cycleLimitHours-s.CycleHoursUsed)

	miles, err := routeMiles(trip.RouteGeometry)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", trip.ID).Warn("cannot measure stored route")
	}
	s.RouteMiles = miles
	return s
}

// GetTripSummary aggregates a trip's logs into daily and cycle totals.
func GetTripSummary(c *gin.Context) {
	trip, ok := loadTrip(c)
	if !ok {
		return
	}

	var logs []models.Log
	if err := config.DB.Where("trip_id = ?", trip.ID).Order("date asc").Order("id asc").Find(&logs).Error; err != nil {
		respondInternal(c, err, "GetTripSummary: query logs failed")
		return
	}

	c.JSON(http.StatusOK, summarizeTrip(trip, logs))
}
