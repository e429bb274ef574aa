package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"eld_logbook/internal/config"
	"eld_logbook/internal/models"
)

// --- Helper Structs for Request Bodies ---

// driverInput is the full profile accepted by POST and PUT /drivers/.
// Credentials and is_admin are not writable here.
type driverInput struct {
	FirstName        string   `json:"first_name" binding:"required,max=100"`
	LastName         string   `json:"last_name" binding:"required,max=100"`
	LicenseNumber    string   `json:"license_number" binding:"required,max=50"`
	Phone            string   `json:"phone" binding:"max=15"`
	Email            string   `json:"email" binding:"omitempty,email,max=254"`
	Company          string   `json:"company" binding:"max=255"`
	Address          string   `json:"address"`
	CurrentLocation  string   `json:"current_location" binding:"max=255"`
	PickupLocation   string   `json:"pickup_location" binding:"max=255"`
	DropoffLocation  string   `json:"dropoff_location" binding:"max=255"`
	CurrentCycleUsed *float64 `json:"current_cycle_used" binding:"omitnil"`
}

// driverPatchInput carries the optional fields for PATCH /drivers/:id/.
type driverPatchInput struct {
	FirstName        *string  `json:"first_name" binding:"omitnil,min=1,max=100"`
	LastName         *string  `json:"last_name" binding:"omitnil,min=1,max=100"`
	LicenseNumber    *string  `json:"license_number" binding:"omitnil,min=1,max=50"`
	Phone            *string  `json:"phone" binding:"omitnil,max=15"`
	Email            *string  `json:"email" binding:"omitempty,email,max=254"`
	Company          *string  `json:"company" binding:"omitnil,max=255"`
	Address          *string  `json:"address"`
	CurrentLocation  *string  `json:"current_location" binding:"omitnil,max=255"`
	PickupLocation   *string  `json:"pickup_location" binding:"omitnil,max=255"`
	DropoffLocation  *string  `json:"dropoff_location" binding:"omitnil,max=255"`
	CurrentCycleUsed *float64 `json:"current_cycle_used" binding:"omitnil"`
}

func (in driverInput) apply(d *models.Driver) {
	d.FirstName = in.FirstName
	d.LastName = in.LastName
	d.LicenseNumber = in.LicenseNumber
	d.Phone = in.Phone
	d.Email = nullableString(in.Email)
	d.Company = in.Company
	d.Address = in.Address
	d.CurrentLocation = in.CurrentLocation
	d.PickupLocation = in.PickupLocation
	d.DropoffLocation = in.DropoffLocation
	d.CurrentCycleUsed = in.CurrentCycleUsed
}

func (in driverPatchInput) apply(d *models.Driver) {
	setString(&d.FirstName, in.FirstName)
	setString(&d.LastName, in.LastName)
	setString(&d.LicenseNumber, in.LicenseNumber)
	setString(&d.Phone, in.Phone)
	if in.Email != nil {
		d.Email = nullableString(*in.Email)
	}
	setString(&d.Company, in.Company)
	setString(&d.Address, in.Address)
	setString(&d.CurrentLocation, in.CurrentLocation)
	setString(&d.PickupLocation, in.PickupLocation)
	setString(&d.DropoffLocation, in.DropoffLocation)
	if in.CurrentCycleUsed != nil {
		d.CurrentCycleUsed = in.CurrentCycleUsed
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// --- Driver Controller Functions ---

// ListDrivers returns every driver, newest first. Admin only.
func ListDrivers(c *gin.Context) {
	drivers := make([]models.Driver, 0)
	if err := config.DB.Order("created_at desc").Order("id desc").Find(&drivers).Error; err != nil {
		respondInternal(c, err, "ListDrivers: query failed")
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// CreateDriver adds a driver profile without login credentials. Admin only.
func CreateDriver(c *gin.Context) {
	var input driverInput
	if !bindJSON(c, &input) {
		return
	}

	var driver models.Driver
	input.apply(&driver)
	if err := config.DB.Create(&driver).Error; err != nil {
		if respondUnique(c, err, "Driver", driverUniqueColumns...) {
			return
		}
		respondInternal(c, err, "CreateDriver: insert failed")
		return
	}

	logrus.WithField("driver_id", driver.ID).Info("driver created by admin")
	c.JSON(http.StatusCreated, driver)
}

func GetDriver(c *gin.Context) {
	driver, ok := loadDriver(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, driver)
}

func UpdateDriver(c *gin.Context) {
	driver, ok := loadDriver(c)
	if !ok {
		return
	}
	var input driverInput
	if !bindJSON(c, &input) {
		return
	}
	input.apply(&driver)
	saveDriver(c, &driver)
}

func PatchDriver(c *gin.Context) {
	driver, ok := loadDriver(c)
	if !ok {
		return
	}
	var input driverPatchInput
	if !bindJSON(c, &input) {
		return
	}
	input.apply(&driver)
	saveDriver(c, &driver)
}

func DeleteDriver(c *gin.Context) {
	driver, ok := loadDriver(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(&models.Driver{}, driver.ID).Error; err != nil {
		respondInternal(c, err, "DeleteDriver: delete failed")
		return
	}
	logrus.WithField("driver_id", driver.ID).Info("driver deleted by admin")
	c.Status(http.StatusNoContent)
}

func loadDriver(c *gin.Context) (models.Driver, bool) {
	var driver models.Driver
	id, ok := parseID(c, "id", "Driver")
	if !ok {
		return driver, false
	}
	if err := config.DB.First(&driver, id).Error; err != nil {
		respondLookup(c, err, "Driver")
		return driver, false
	}
	return driver, true
}

func saveDriver(c *gin.Context, driver *models.Driver) {
	if err := config.DB.Save(driver).Error; err != nil {
		if respondUnique(c, err, "Driver", driverUniqueColumns...) {
			return
		}
		respondInternal(c, err, "saveDriver: update failed")
		return
	}
	c.JSON(http.StatusOK, driver)
}
