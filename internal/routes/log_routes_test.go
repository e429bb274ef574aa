package routes

import (
	"fmt"
	"net/http"
	"testing"

	"eld_logbook/internal/models"
)

func logBody(tripID uint, date string) map[string]interface{} {
	return map[string]interface{}{
		"trip":          tripID,
		"date":          date,
		"total_miles":   320.5,
		"driving_time":  7,
		"on_duty_time":  2,
		"off_duty_time": 15,
	}
}

func createLog(t *testing.T, r http.Handler, body map[string]interface{}) models.Log {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/logs/", body, "")
	expectStatus(t, w, http.StatusCreated)
	var l models.Log
	decode(t, w, &l)
	return l
}

func TestCreateLogDefaults(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTrip(t, r, exampleTrip())

	l := createLog(t, r, logBody(tripID, "2024-01-15"))
	if l.ID == 0 || l.TripID != tripID {
		t.Errorf("log = %+v", l)
	}
	if l.RestBreaks != 0.5 {
		t.Errorf("rest_breaks = %v, want default 0.5", l.RestBreaks)
	}
	if l.Date.String() != "2024-01-15" {
		t.Errorf("date = %s", l.Date)
	}

	body := logBody(tripID, "2024-01-16")
	body["rest_breaks"] = 0
	if l := createLog(t, r, body); l.RestBreaks != 0 {
		t.Errorf("explicit zero rest_breaks became %v", l.RestBreaks)
	}

	// The stored row round-trips the date.
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/logs/%d/", l.ID), nil, "")
	expectStatus(t, w, http.StatusOK)
	var got map[string]interface{}
	decode(t, w, &got)
	if got["date"] != "2024-01-15" || got["trip"] != float64(tripID) {
		t.Errorf("retrieved = %v", got)
	}
}

func TestListLogsNewestDateFirst(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTrip(t, r, exampleTrip())

	for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
		createLog(t, r, logBody(tripID, d))
	}

	w := doJSON(t, r, http.MethodGet, "/api/logs/", nil, "")
	expectStatus(t, w, http.StatusOK)
	var logs []models.Log
	decode(t, w, &logs)

	want := []string{"2024-01-03", "2024-01-02", "2024-01-01"}
	if len(logs) != len(want) {
		t.Fatalf("got %d logs", len(logs))
	}
	for i, d := range want {
		if logs[i].Date.String() != d {
			t.Errorf("logs[%d].date = %s, want %s", i, logs[i].Date, d)
		}
	}
}

func TestCreateLogValidation(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTrip(t, r, exampleTrip())

	tests := []struct {
		name  string
		mut   func(map[string]interface{})
		field string
		msg   string
	}{
		{"missing trip", func(b map[string]interface{}) { delete(b, "trip") }, "trip", "This field is required."},
		{"unknown trip", func(b map[string]interface{}) { b["trip"] = 9999 }, "trip", "Invalid pk - object does not exist."},
		{"missing date", func(b map[string]interface{}) { delete(b, "date") }, "date", "This field is required."},
		{"bad date", func(b map[string]interface{}) { b["date"] = "15/01/2024" }, "date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
		{"text miles", func(b map[string]interface{}) { b["total_miles"] = "far" }, "total_miles", "A valid number is required."},
		{"null driving", func(b map[string]interface{}) { b["driving_time"] = nil }, "driving_time", "This field is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := logBody(tripID, "2024-01-15")
			tt.mut(body)
			w := doJSON(t, r, http.MethodPost, "/api/logs/", body, "")
			expectStatus(t, w, http.StatusBadRequest)
			if got := fieldErrors(t, w)[tt.field]; len(got) == 0 || got[0] != tt.msg {
				t.Errorf("fields[%s] = %v, want %q", tt.field, got, tt.msg)
			}
		})
	}
}

func TestCreateLogStoresHoursAsSent(t *testing.T) {
	r := newTestRouter(t)
	body := logBody(createTrip(t, r, exampleTrip()), "2024-01-20")
	body["off_duty_time"] = -1
	body["rest_breaks"] = -0.25

	l := createLog(t, r, body)
	if l.OffDutyTime != -1 || l.RestBreaks != -0.25 {
		t.Errorf("log = %+v", l)
	}
}

func TestListLogsFilterByTrip(t *testing.T) {
	r := newTestRouter(t)
	a := createTrip(t, r, exampleTrip())
	b := createTrip(t, r, exampleTrip())
	createLog(t, r, logBody(a, "2024-02-01"))
	createLog(t, r, logBody(b, "2024-02-02"))
	createLog(t, r, logBody(b, "2024-02-03"))

	var logs []models.Log
	decode(t, doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/logs/?trip=%d", b), nil, ""), &logs)
	if len(logs) != 2 {
		t.Fatalf("got %d logs for trip %d", len(logs), b)
	}
	for _, l := range logs {
		if l.TripID != b {
			t.Errorf("log %d belongs to trip %d", l.ID, l.TripID)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/logs/?trip=abc", nil, "")
	expectStatus(t, w, http.StatusBadRequest)
}

func TestNestedLogsAreScoped(t *testing.T) {
	r := newTestRouter(t)
	a := createTrip(t, r, exampleTrip())
	b := createTrip(t, r, exampleTrip())

	// The path wins over a body trip.
	body := logBody(b, "2024-04-01")
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/logs/", a), body, "")
	expectStatus(t, w, http.StatusCreated)
	var logA models.Log
	decode(t, w, &logA)
	if logA.TripID != a {
		t.Fatalf("nested create stored trip %d, want %d", logA.TripID, a)
	}
	createLog(t, r, logBody(b, "2024-04-02"))

	var listA []models.Log
	decode(t, doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/trips/%d/logs/", a), nil, ""), &listA)
	if len(listA) != 1 || listA[0].ID != logA.ID {
		t.Errorf("trip %d logs = %+v", a, listA)
	}

	wrongParent := fmt.Sprintf("/api/trips/%d/logs/%d/", b, logA.ID)
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var payload interface{}
		if method == http.MethodPatch {
			payload = map[string]interface{}{"total_miles": 1}
		}
		w := doJSON(t, r, method, wrongParent, payload, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", method, wrongParent, w.Code)
		}
	}

	rightParent := fmt.Sprintf("/api/trips/%d/logs/%d/", a, logA.ID)
	w = doJSON(t, r, http.MethodPatch, rightParent, map[string]interface{}{"total_miles": 111}, "")
	expectStatus(t, w, http.StatusOK)
	var patched models.Log
	decode(t, w, &patched)
	if patched.TotalMiles != 111 || patched.DrivingTime != 7 || patched.TripID != a {
		t.Errorf("patched = %+v", patched)
	}

	w = doJSON(t, r, http.MethodPost, "/api/trips/9999/logs/", logBody(a, "2024-04-03"), "")
	expectStatus(t, w, http.StatusNotFound)

	w = doJSON(t, r, http.MethodDelete, rightParent, nil, "")
	expectStatus(t, w, http.StatusNoContent)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/logs/%d/", logA.ID), nil, "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestUpdateLogGlobal(t *testing.T) {
	r := newTestRouter(t)
	a := createTrip(t, r, exampleTrip())
	b := createTrip(t, r, exampleTrip())
	l := createLog(t, r, logBody(a, "2024-06-01"))
	path := fmt.Sprintf("/api/logs/%d/", l.ID)

	// PUT moves the log to another trip and resets rest_breaks to the default.
	put := logBody(b, "2024-06-02")
	put["driving_time"] = 9
	w := doJSON(t, r, http.MethodPut, path, put, "")
	expectStatus(t, w, http.StatusOK)
	var got models.Log
	decode(t, w, &got)
	if got.TripID != b || got.DrivingTime != 9 || got.Date.String() != "2024-06-02" || got.RestBreaks != 0.5 {
		t.Errorf("after PUT: %+v", got)
	}

	put["trip"] = 9999
	w = doJSON(t, r, http.MethodPut, path, put, "")
	expectStatus(t, w, http.StatusBadRequest)
	if msgs := fieldErrors(t, w)["trip"]; len(msgs) == 0 {
		t.Error("expected trip error")
	}

	w = doJSON(t, r, http.MethodPatch, path, map[string]interface{}{"rest_breaks": 2}, "")
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &got)
	if got.TripID != b || got.RestBreaks != 2 {
		t.Errorf("after PATCH: %+v", got)
	}
}
