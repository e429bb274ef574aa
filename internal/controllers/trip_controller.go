package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eld_logbook/internal/cache"
	"eld_logbook/internal/config"
	"eld_logbook/internal/models"
)

var tripCache cache.Cache = cache.Noop{}

// SetTripCache installs the cache used by trip retrieval. nil restores the no-op cache.
func SetTripCache(c cache.Cache) {
	if c == nil {
		c = cache.Noop{}
	}
	tripCache = c
}

// TripResponse mirrors models.Trip with route_geometry rendered as GeoJSON.
type TripResponse struct {
	ID               uint            `json:"id"`
	CurrentLocation  string          `json:"current_location"`
	PickupLocation   string          `json:"pickup_location"`
	DropoffLocation  string          `json:"dropoff_location"`
	CurrentCycleUsed float64         `json:"current_cycle_used"`
	RouteGeometry    json.RawMessage `json:"route_geometry"`
	CreatedAt        time.Time       `json:"created_at"`
}

// toTripResponse converts a models.Trip to a TripResponse
func toTripResponse(trip models.Trip) TripResponse {
	geo, err := convertWKBToGeoJSON(trip.RouteGeometry)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", trip.ID).Warn("stored route geometry is unreadable")
		geo = nil
	}
	return TripResponse{
		ID:               trip.ID,
		CurrentLocation:  trip.CurrentLocation,
		PickupLocation:   trip.PickupLocation,
		DropoffLocation:  trip.DropoffLocation,
		CurrentCycleUsed: trip.CurrentCycleUsed,
		RouteGeometry:    geo,
		CreatedAt:        trip.CreatedAt,
	}
}

type tripInput struct {
	CurrentLocation  string          `json:"current_location" binding:"required,max=255"`
	PickupLocation   string          `json:"pickup_location" binding:"required,max=255"`
	DropoffLocation  string          `json:"dropoff_location" binding:"required,max=255"`
	CurrentCycleUsed *float64        `json:"current_cycle_used" binding:"required"`
	RouteGeometry    json.RawMessage `json:"route_geometry"`
}

type tripPatchInput struct {
	CurrentLocation  *string         `json:"current_location" binding:"omitnil,min=1,max=255"`
	PickupLocation   *string         `json:"pickup_location" binding:"omitnil,min=1,max=255"`
	DropoffLocation  *string         `json:"dropoff_location" binding:"omitnil,min=1,max=255"`
	CurrentCycleUsed *float64        `json:"current_cycle_used" binding:"omitnil"`
	RouteGeometry    json.RawMessage `json:"route_geometry"`
}

// bindRouteGeometry parses route_geometry and writes a 400 when it is invalid.
func bindRouteGeometry(c *gin.Context, raw json.RawMessage) (wkbGeom []byte, present bool, ok bool) {
	wkbGeom, present, err := parseRouteGeometry(raw)
	if err != nil {
		respondValidation(c, FieldErrors{"route_geometry": {"Invalid geometry: " + err.Error()}})
		return nil, present, false
	}
	return wkbGeom, present, true
}

// ListTrips returns every trip, newest first.
func ListTrips(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Order("created_at desc").Order("id desc").Find(&trips).Error; err != nil {
		respondInternal(c, err, "ListTrips: query failed")
		return
	}

	resp := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		resp = append(resp, toTripResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateTrip stores a new trip.
func CreateTrip(c *gin.Context) {
	var input tripInput
	if !bindJSON(c, &input) {
		return
	}
	wkbGeom, _, ok := bindRouteGeometry(c, input.RouteGeometry)
	if !ok {
		return
	}

	trip := models.Trip{
		CurrentLocation:  input.CurrentLocation,
		PickupLocation:   input.PickupLocation,
		DropoffLocation:  input.DropoffLocation,
		CurrentCycleUsed: *input.CurrentCycleUsed,
		RouteGeometry:    wkbGeom,
	}
	if err := config.DB.Create(&trip).Error; err != nil {
		respondInternal(c, err, "CreateTrip: insert failed")
		return
	}

	resp := toTripResponse(trip)
	logrus.WithField("trip_id", trip.ID).Info("trip created")
	publishRecord("trip", "created", trip.ID, resp)
	c.JSON(http.StatusCreated, resp)
}

// GetTrip returns one trip, served from the cache when possible.
func GetTrip(c *gin.Context) {
	id, ok := parseID(c, "id", "Trip")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := cache.TripKey(id)

	if b, hit := tripCache.Get(ctx, key); hit {
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		respondLookup(c, err, "Trip")
		return
	}

	resp := toTripResponse(trip)
	if b, err := json.Marshal(resp); err == nil {
		tripCache.Set(ctx, key, b)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateTrip replaces every writable field of a trip. An absent
// route_geometry clears the stored route.
func UpdateTrip(c *gin.Context) {
	trip, ok := loadTrip(c)
	if !ok {
		return
	}
	var input tripInput
	if !bindJSON(c, &input) {
		return
	}
	wkbGeom, _, ok := bindRouteGeometry(c, input.RouteGeometry)
	if !ok {
		return
	}

	trip.CurrentLocation = input.CurrentLocation
	trip.PickupLocation = input.PickupLocation
	trip.DropoffLocation = input.DropoffLocation
	trip.CurrentCycleUsed = *input.CurrentCycleUsed
	trip.RouteGeometry = wkbGeom
	saveTrip(c, &trip)
}

// PatchTrip updates only the fields present in the body.
func PatchTrip(c *gin.Context) {
	trip, ok := loadTrip(c)
	if !ok {
		return
	}
	var input tripPatchInput
	if !bindJSON(c, &input) {
		return
	}
	wkbGeom, present, ok := bindRouteGeometry(c, input.RouteGeometry)
	if !ok {
		return
	}

	if input.CurrentLocation != nil {
		trip.CurrentLocation = *input.CurrentLocation
	}
	if input.PickupLocation != nil {
		trip.PickupLocation = *input.PickupLocation
	}
	if input.DropoffLocation != nil {
		trip.DropoffLocation = *input.DropoffLocation
	}
	if input.CurrentCycleUsed != nil {
		trip.CurrentCycleUsed = *input.CurrentCycleUsed
	}
	if present {
		trip.RouteGeometry = wkbGeom
	}
	saveTrip(c, &trip)
}

// DeleteTrip removes a trip and all of its logs in one transaction.
func DeleteTrip(c *gin.Context) {
	trip, ok := loadTrip(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondInternal(c, tx.Error, "DeleteTrip: failed to start transaction")
		return
	}

	if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.Log{}).Error; err != nil {
		tx.Rollback()
		respondInternal(c, err, "DeleteTrip: failed to delete logs")
		return
	}

	if err := tx.Delete(&models.Trip{}, trip.ID).Error; err != nil {
		tx.Rollback()
		respondInternal(c, err, "DeleteTrip: failed to delete trip")
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondInternal(c, err, "DeleteTrip: transaction commit failed")
		return
	}

	tripCache.Delete(c.Request.Context(), cache.TripKey(trip.ID))
	logrus.WithField("trip_id", trip.ID).Info("trip deleted")
	publishRecord("trip", "deleted", trip.ID, nil)
	c.Status(http.StatusNoContent)
}

func loadTrip(c *gin.Context) (models.Trip, bool) {
	var trip models.Trip
	id, ok := parseID(c, "id", "Trip")
	if !ok {
		return trip, false
	}
	if err := config.DB.First(&trip, id).Error; err != nil {
		respondLookup(c, err, "Trip")
		return trip, false
	}
	return trip, true
}

func saveTrip(c *gin.Context, trip *models.Trip) {
	if err := config.DB.Save(trip).Error; err != nil {
		respondInternal(c, err, "saveTrip: update failed")
		return
	}
	tripCache.Delete(c.Request.Context(), cache.TripKey(trip.ID))

	resp := toTripResponse(*trip)
	publishRecord("trip", "updated", trip.ID, resp)
	c.JSON(http.StatusOK, resp)
}
