package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eld_logbook/internal/config"
	"eld_logbook/internal/middleware"
	"eld_logbook/internal/models"
)

type registerInput struct {
	Username      string `json:"username" binding:"required,max=150"`
	Password      string `json:"password" binding:"required"`
	Email         string `json:"email" binding:"required,email,max=254"`
	LicenseNumber string `json:"license_number" binding:"required,max=50"`
	Company       string `json:"company" binding:"max=255"`
	Phone         string `json:"phone" binding:"required,max=15"`
}

// driverUniqueColumns are checked in order when a unique constraint fails.
var driverUniqueColumns = []string{"username", "email", "license_number"}

// RegisterDriver creates a driver account with a bcrypt-hashed password.
func RegisterDriver(c *gin.Context) {
	var input registerInput
	if !bindJSON(c, &input) {
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		respondValidation(c, FieldErrors{"password": {"Ensure this field has no more than 72 bytes."}})
		return
	}
	if err != nil {
		respondInternal(c, err, "RegisterDriver: could not hash password")
		return
	}

	driver := models.Driver{
		Username:      &input.Username,
		Password:      hashedPassword,
		Email:         nullableString(input.Email),
		LicenseNumber: input.LicenseNumber,
		Company:       input.Company,
		Phone:         input.Phone,
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		if respondUnique(c, err, "Driver", driverUniqueColumns...) {
			return
		}
		respondInternal(c, err, "RegisterDriver: insert failed")
		return
	}

	logrus.WithField("driver_id", driver.ID).Info("driver registered")
	c.JSON(http.StatusCreated, driver)
}

// LoginDriver checks credentials and issues an access/refresh token pair.
func LoginDriver(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	var driver models.Driver
	if err := config.DB.Where("username = ?", body.Username).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			respondInternal(c, err, "LoginDriver: lookup failed")
		}
		return
	}

	if driver.Password == "" || bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	access, refresh, err := middleware.GenerateTokenPair(driver.ID, body.Username, driver.IsAdmin)
	if err != nil {
		respondInternal(c, err, "LoginDriver: could not generate tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":   access,
		"refresh":  refresh,
		"is_admin": driver.IsAdmin,
	})
}

// RefreshToken exchanges a refresh token for a new access token.
func RefreshToken(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	claims, err := middleware.ValidateToken(body.Refresh, middleware.TokenRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}

	// is_admin may have changed since the refresh token was issued.
	var driver models.Driver
	if err := config.DB.First(&driver, claims.DriverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		} else {
			respondInternal(c, err, "RefreshToken: lookup failed")
		}
		return
	}

	access, err := middleware.GenerateToken(driver.ID, claims.Username, driver.IsAdmin, middleware.TokenAccess)
	if err != nil {
		respondInternal(c, err, "RefreshToken: could not generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":   access,
		"is_admin": driver.IsAdmin,
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
