package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"eld_logbook/internal/middleware"
	"eld_logbook/internal/models"
)

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func init() {
	// Report validation failures under the JSON field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// bindJSON decodes and validates the request body into dst. On failure it
// writes the 400 response and returns false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	fields, ok := fieldErrors(err)
	if !ok {
		logrus.WithError(err).WithField("path", c.FullPath()).Debug("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	respondValidation(c, fields)
	return false
}

// fieldErrors converts binding errors into per-field messages. It returns
// false when the body could not be mapped to fields at all.
func fieldErrors(err error) (FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := FieldErrors{}
		for _, fe := range verrs {
			out.add(fe.Field(), validationMessage(fe))
		}
		return out, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := "Invalid value."
		switch {
		case typeErr.Type == reflect.TypeOf(models.Date{}):
			msg = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
		case isNumberKind(typeErr.Type):
			msg = "A valid number is required."
		case typeErr.Type.Kind() == reflect.String:
			msg = "Not a valid string."
		}
		return FieldErrors{typeErr.Field: {msg}}, true
	}

	return nil, false
}

func isNumberKind(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		if fe.Param() == "1" {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	}
	return "Invalid value."
}

func respondValidation(c *gin.Context, fields FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

func respondNotFound(c *gin.Context, entity string) {
	c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found."})
}

// respondInternal logs err with the request id and hides it from the client.
func respondInternal(c *gin.Context, err error, msg string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.ContextRequestID),
		"path":       c.FullPath(),
	}).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// respondLookup answers a failed First() with 404 or 500.
func respondLookup(c *gin.Context, err error, entity string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, entity)
		return
	}
	respondInternal(c, err, "lookup "+strings.ToLower(entity)+" failed")
}

// parseID reads a positive integer path parameter. Anything else is a 404,
// matching what an unmatched numeric route would give.
func parseID(c *gin.Context, param, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		respondNotFound(c, entity)
		return 0, false
	}
	return uint(id), true
}

// uniqueViolation reports whether err is a unique-constraint failure and
// returns the violated column, or the constraint name when the column is not
// reported. User-supplied values are never part of the result.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if col := keyColumn(pgErr.Detail); col != "" {
			return col, true
		}
		return pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if col := keyColumn(pqErr.Detail); col != "" {
			return col, true
		}
		return pqErr.Constraint, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	// SQLite: "UNIQUE constraint failed: drivers.license_number (2067)"
	const sqliteMarker = "UNIQUE constraint failed: "
	if msg := err.Error(); strings.Contains(msg, sqliteMarker) {
		target := msg[strings.Index(msg, sqliteMarker)+len(sqliteMarker):]
		if i := strings.IndexAny(target, " ,"); i >= 0 {
			target = target[:i]
		}
		if i := strings.LastIndex(target, "."); i >= 0 {
			target = target[i+1:]
		}
		return target, true
	}
	return "", false
}

// keyColumn extracts the column list from a Postgres detail such as
// "Key (license_number)=(CDL-1) already exists.".
func keyColumn(detail string) string {
	rest, ok := strings.CutPrefix(detail, "Key (")
	if !ok {
		return ""
	}
	col, _, ok := strings.Cut(rest, ")=")
	if !ok {
		return ""
	}
	return col
}

// respondUnique turns a unique-constraint failure into a field error naming
// the violated column. It returns false if err is something else.
func respondUnique(c *gin.Context, err error, entity string, columns ...string) bool {
	target, ok := uniqueViolation(err)
	if !ok {
		return false
	}
	for _, col := range columns {
		// a bare column, or an index named idx_<table>_<column>
		if target == col || strings.HasSuffix(target, "_"+col) {
			respondValidation(c, FieldErrors{col: {fmt.Sprintf("%s with this %s already exists.", entity, strings.ReplaceAll(col, "_", " "))}})
			return true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": entity + " already exists"})
	return true
}

// nullableString maps "" to nil so optional unique columns stay NULL.
func nullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
