package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"eld_logbook/internal/middleware"
)

const writeWait = 5 * time.Second

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware governs browser origins for the API
	},
}

// RecordEvent is the message pushed to feed clients.
type RecordEvent struct {
	Event string      `json:"event"` // e.g. "trip.created", "log.deleted"
	ID    uint        `json:"id"`
	Data  interface{} `json:"data"`
}

// RecordHub fans record changes out to every connected WebSocket client.
type RecordHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan RecordEvent
	mu        sync.Mutex
}

// NewRecordHub creates a hub and starts its broadcast goroutine.
func NewRecordHub() *RecordHub {
	hub := &RecordHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan RecordEvent, 100),
	}
	go hub.run()
	return hub
}

// run is the only writer on client connections.
func (h *RecordHub) run() {
	for ev := range h.broadcast {
		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.Unlock()

		for _, conn := range conns {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"event":    ev.Event,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Info("Failed to send record event, dropping client.")
				h.UnregisterClient(conn)
				conn.Close()
			}
		}
	}
}

// RegisterClient adds a connection to the hub.
func (h *RecordHub) RegisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client registered with RecordHub.")
}

// UnregisterClient removes a connection. It is safe to call more than once.
func (h *RecordHub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client unregistered from RecordHub.")
}

// ClientCount reports how many clients are connected.
func (h *RecordHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues ev for broadcast, dropping it if the buffer is full.
func (h *RecordHub) Publish(ev RecordEvent) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("event", ev.Event).Warn("Record broadcast channel full, dropping message.")
	}
}

var recordHub = NewRecordHub()

// Hub exposes the process-wide record hub.
func Hub() *RecordHub { return recordHub }

// publishRecord announces a change such as ("trip", "created").
func publishRecord(kind, action string, id uint, data interface{}) {
	recordHub.Publish(RecordEvent{Event: kind + "." + action, ID: id, Data: data})
}

// HandleRecordWebSocket upgrades an authenticated request to the record feed.
// The access token travels in the token query parameter.
func HandleRecordWebSocket(c *gin.Context) {
	claims, err := middleware.ValidateToken(c.Query("token"), middleware.TokenAccess)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	recordHub.RegisterClient(conn)
	defer recordHub.UnregisterClient(conn)

	log := logrus.WithFields(logrus.Fields{
		"driver_id": claims.DriverID,
		"conn_ptr":  fmt.Sprintf("%p", conn),
	})
	log.Info("Record feed connection established.")

	// The feed is one-way; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("Record feed closed by client.")
			} else {
				log.WithError(err).Debug("Record feed read ended.")
			}
			return
		}
		log.Debug("Record feed client sent a message. Ignoring.")
	}
}
