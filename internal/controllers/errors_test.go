package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantOK     bool
		wantDetail string
	}{
		{"pgx", &pgconn.PgError{Code: "23505", ConstraintName: "idx_drivers_license_number"}, true, "idx_drivers_license_number"},
		{"pgx detail", &pgconn.PgError{Code: "23505", ConstraintName: "idx_drivers_license_number", Detail: "Key (license_number)=(email-1) already exists."}, true, "license_number"},
		{"pgx wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_drivers_email"}), true, "idx_drivers_email"},
		{"pgx other code", &pgconn.PgError{Code: "23503"}, false, ""},
		{"lib/pq", &pq.Error{Code: "23505", Constraint: "idx_drivers_username"}, true, "idx_drivers_username"},
		{"lib/pq detail", &pq.Error{Code: "23505", Constraint: "idx_drivers_username", Detail: "Key (username)=(license_number) already exists."}, true, "username"},
		{"gorm translated", gorm.ErrDuplicatedKey, true, ""},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: drivers.license_number (2067)"), true, "license_number"},
		{"unrelated", errors.New("connection reset"), false, ""},
		{"nil", nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, ok := uniqueViolation(tt.err)
			if ok != tt.wantOK || detail != tt.wantDetail {
				t.Errorf("uniqueViolation = (%q, %v), want (%q, %v)", detail, ok, tt.wantDetail, tt.wantOK)
			}
		})
	}
}

func TestRespondUniqueNamesField(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"constraint name", &pq.Error{Code: "23505", Constraint: "idx_drivers_license_number"}, "license_number"},
		// The duplicated value mentions another column; only the key column counts.
		{"value looks like a column", &pgconn.PgError{Code: "23505", ConstraintName: "idx_drivers_license_number", Detail: "Key (license_number)=(email-1) already exists."}, "license_number"},
		{"email", &pgconn.PgError{Code: "23505", ConstraintName: "idx_drivers_email", Detail: "Key (email)=(username@example.com) already exists."}, "email"},
		{"sqlite", errors.New("UNIQUE constraint failed: drivers.username"), "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			if !respondUnique(c, tt.err, "Driver", driverUniqueColumns...) {
				t.Fatal("not treated as a unique violation")
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			want := fmt.Sprintf(`{"error":"validation failed","fields":{"%s":["Driver with this %s already exists."]}}`,
				tt.field, strings.ReplaceAll(tt.field, "_", " "))
			if w.Body.String() != want {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestParseID(t *testing.T) {
	for raw, wantOK := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false, "": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		id, ok := parseID(c, "id", "Trip")
		if ok != wantOK {
			t.Errorf("parseID(%q) ok = %v", raw, ok)
		}
		if ok && id != 12 {
			t.Errorf("parseID(%q) = %d", raw, id)
		}
		if !ok && w.Code != http.StatusNotFound {
			t.Errorf("parseID(%q) status = %d", raw, w.Code)
		}
	}
}

func TestNullableString(t *testing.T) {
	if nullableString("  ") != nil {
		t.Error("blank should be nil")
	}
	if p := nullableString(" a@b.co "); p == nil || *p != "a@b.co" {
		t.Errorf("got %v", p)
	}
}
