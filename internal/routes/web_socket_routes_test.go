package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"eld_logbook/internal/controllers"
)

func TestRecordFeed(t *testing.T) {
	r := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/records"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bogus", nil)
	if err == nil {
		t.Fatal("dial with a bad token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token response = %v", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+tokenFor(t, 1, false), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for controllers.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	raw, _ := json.Marshal(exampleTrip())
	res, err := http.Post(srv.URL+"/api/trips/", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	var created controllers.TripResponse
	_ = json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var ev struct {
			Event string                 `json:"event"`
			ID    uint                   `json:"id"`
			Data  map[string]interface{} `json:"data"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("no trip.created event: %v", err)
		}
		if ev.Event != "trip.created" || ev.ID != created.ID {
			continue
		}
		if ev.Data["current_location"] != "Dallas, TX" {
			t.Errorf("event data = %v", ev.Data)
		}
		break
	}
}
