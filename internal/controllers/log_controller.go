package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eld_logbook/internal/cache"
	"eld_logbook/internal/config"
	"eld_logbook/internal/models"
)

const invalidTripPK = "Invalid pk - object does not exist."

// logScope describes which logs a request may see. Nested routes
// (/trips/:id/logs/...) are pinned to one trip and name the log "log_id".
type logScope struct {
	nested bool
	tripID uint
}

func (s logScope) logParam() string {
	if s.nested {
		return "log_id"
	}
	return "id"
}

func (s logScope) query() *gorm.DB {
	q := config.DB.Model(&models.Log{})
	if s.nested {
		q = q.Where("trip_id = ?", s.tripID)
	}
	return q
}

// resolveScope loads the parent trip for nested routes. A missing parent is a 404.
func resolveScope(c *gin.Context, nested bool) (logScope, bool) {
	if !nested {
		return logScope{}, true
	}
	trip, ok := loadTrip(c)
	if !ok {
		return logScope{}, false
	}
	return logScope{nested: true, tripID: trip.ID}, true
}

// tripExists reports whether id names a trip. On a database failure it
// writes the 500 itself and returns ok=false.
func tripExists(c *gin.Context, id uint) (exists bool, ok bool) {
	var count int64
	if err := config.DB.Model(&models.Trip{}).Where("id = ?", id).Count(&count).Error; err != nil {
		respondInternal(c, err, "tripExists: query failed")
		return false, false
	}
	return count > 0, true
}

type logInput struct {
	Trip        *uint        `json:"trip"`
	Date        *models.Date `json:"date" binding:"required"`
	TotalMiles  *float64     `json:"total_miles" binding:"required"`
	DrivingTime *float64     `json:"driving_time" binding:"required"`
	OnDutyTime  *float64     `json:"on_duty_time" binding:"required"`
	OffDutyTime *float64     `json:"off_duty_time" binding:"required"`
	RestBreaks  *float64     `json:"rest_breaks" binding:"omitnil"`
}

type logPatchInput struct {
	Trip        *uint        `json:"trip"`
	Date        *models.Date `json:"date"`
	TotalMiles  *float64     `json:"total_miles" binding:"omitnil"`
	DrivingTime *float64     `json:"driving_time" binding:"omitnil"`
	OnDutyTime  *float64     `json:"on_duty_time" binding:"omitnil"`
	OffDutyTime *float64     `json:"off_duty_time" binding:"omitnil"`
	RestBreaks  *float64     `json:"rest_breaks" binding:"omitnil"`
}

// targetTrip decides which trip a written log belongs to. Nested routes use
// the path and ignore the body; the global route requires an existing trip in
// the body (or, for PATCH, keeps current when the body omits it).
func targetTrip(c *gin.Context, scope logScope, bodyTrip *uint, current uint, partial bool) (uint, bool) {
	if scope.nested {
		return scope.tripID, true
	}
	if bodyTrip == nil {
		if partial {
			return current, true
		}
		respondValidation(c, FieldErrors{"trip": {"This field is required."}})
		return 0, false
	}
	exists, ok := tripExists(c, *bodyTrip)
	if !ok {
		return 0, false
	}
	if !exists {
		respondValidation(c, FieldErrors{"trip": {invalidTripPK}})
		return 0, false
	}
	return *bodyTrip, true
}

// ListLogs lists every log, newest date first. ?trip=<id> narrows the list.
func ListLogs(c *gin.Context) { listLogs(c, false) }

// ListTripLogs lists the logs of the trip in the path.
func ListTripLogs(c *gin.Context) { listLogs(c, true) }

func listLogs(c *gin.Context, nested bool) {
	scope, ok := resolveScope(c, nested)
	if !ok {
		return
	}

	q := scope.query()
	if raw := c.Query("trip"); raw != "" && !nested {
		tripID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondValidation(c, FieldErrors{"trip": {"A valid integer is required."}})
			return
		}
		q = q.Where("trip_id = ?", tripID)
	}

	logs := make([]models.Log, 0)
	if err := q.Order("date desc").Order("id desc").Find(&logs).Error; err != nil {
		respondInternal(c, err, "listLogs: query failed")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func CreateLog(c *gin.Context)     { createLog(c, false) }
func CreateTripLog(c *gin.Context) { createLog(c, true) }

func createLog(c *gin.Context, nested bool) {
	scope, ok := resolveScope(c, nested)
	if !ok {
		return
	}
	var input logInput
	if !bindJSON(c, &input) {
		return
	}
	tripID, ok := targetTrip(c, scope, input.Trip, 0, false)
	if !ok {
		return
	}

	entry := models.Log{
		TripID:      tripID,
		Date:        *input.Date,
		TotalMiles:  *input.TotalMiles,
		DrivingTime: *input.DrivingTime,
		OnDutyTime:  *input.OnDutyTime,
		OffDutyTime: *input.OffDutyTime,
		RestBreaks:  models.DefaultRestBreaks,
	}
	if input.RestBreaks != nil {
		entry.RestBreaks = *input.RestBreaks
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		respondInternal(c, err, "createLog: insert failed")
		return
	}

	tripCache.Delete(c.Request.Context(), cache.TripKey(entry.TripID))
	publishRecord("log", "created", entry.ID, entry)
	c.JSON(http.StatusCreated, entry)
}

func GetLog(c *gin.Context)     { getLog(c, false) }
func GetTripLog(c *gin.Context) { getLog(c, true) }

func getLog(c *gin.Context, nested bool) {
	scope, ok := resolveScope(c, nested)
	if !ok {
		return
	}
	entry, ok := loadLog(c, scope)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, entry)
}

func UpdateLog(c *gin.Context)     { updateLog(c, false, false) }
func UpdateTripLog(c *gin.Context) { updateLog(c, true, false) }
func PatchLog(c *gin.Context)      { updateLog(c, false, true) }
func PatchTripLog(c *gin.Context)  { updateLog(c, true, true) }

// updateLog handles PUT (partial=false) and PATCH (partial=true).
func updateLog(c *gin.Context, nested, partial bool) {
	scope, ok := resolveScope(c, nested)
	if !ok {
		return
	}
	entry, ok := loadLog(c, scope)
	if !ok {
		return
	}
	previousTrip := entry.TripID

	if partial {
		var input logPatchInput
		if !bindJSON(c, &input) {
			return
		}
		if entry.TripID, ok = targetTrip(c, scope, input.Trip, entry.TripID, true); !ok {
			return
		}
		if input.Date != nil {
			entry.Date = *input.Date
		}
		setFloat(&entry.TotalMiles, input.TotalMiles)
		setFloat(&entry.DrivingTime, input.DrivingTime)
		setFloat(&entry.OnDutyTime, input.OnDutyTime)
		setFloat(&entry.OffDutyTime, input.OffDutyTime)
		setFloat(&entry.RestBreaks, input.RestBreaks)
	} else {
		var input logInput
		if !bindJSON(c, &input) {
			return
		}
		if entry.TripID, ok = targetTrip(c, scope, input.Trip, entry.TripID, false); !ok {
			return
		}
		entry.Date = *input.Date
		entry.TotalMiles = *input.TotalMiles
		entry.DrivingTime = *input.DrivingTime
		entry.OnDutyTime = *input.OnDutyTime
		entry.OffDutyTime = *input.OffDutyTime
		entry.RestBreaks = models.DefaultRestBreaks
		setFloat(&entry.RestBreaks, input.RestBreaks)
	}

	if err := config.DB.Save(&entry).Error; err != nil {
		respondInternal(c, err, "updateLog: update failed")
		return
	}

	tripCache.Delete(c.Request.Context(), cache.TripKey(previousTrip), cache.TripKey(entry.TripID))
	publishRecord("log", "updated", entry.ID, entry)
	c.JSON(http.StatusOK, entry)
}

func DeleteLog(c *gin.Context)     { deleteLog(c, false) }
func DeleteTripLog(c *gin.Context) { deleteLog(c, true) }

func deleteLog(c *gin.Context, nested bool) {
	scope, ok := resolveScope(c, nested)
	if !ok {
		return
	}
	entry, ok := loadLog(c, scope)
	if !ok {
		return
	}

	if err := config.DB.Delete(&models.Log{}, entry.ID).Error; err != nil {
		respondInternal(c, err, "deleteLog: delete failed")
		return
	}

	tripCache.Delete(c.Request.Context(), cache.TripKey(entry.TripID))
	publishRecord("log", "deleted", entry.ID, nil)
	c.Status(http.StatusNoContent)
}

func loadLog(c *gin.Context, scope logScope) (models.Log, bool) {
	var entry models.Log
	id, ok := parseID(c, scope.logParam(), "Log")
	if !ok {
		return entry, false
	}
	if err := scope.query().Where("id = ?", id).First(&entry).Error; err != nil {
		respondLookup(c, err, "Log")
		return entry, false
	}
	return entry, true
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
