package handlers

import (
	"net/http"
	"time"

	"herbtrace-service/events"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// WebSocketHandler upgrades connections for event subscribers.
type WebSocketHandler struct {
	hub *events.Hub
}

func NewWebSocketHandler(hub *events.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		return true
	},
}

// ListenEvents handles WebSocket connections for listening to domain events
func (h *WebSocketHandler) ListenEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection to WebSocket: %v", err)
		return
	}

	h.hub.RegisterClient(conn)
	log.Infof("WebSocket event subscription established from %s", c.ClientIP())
}

// Stats returns the hub statistics for the health surface.
func (h *WebSocketHandler) Stats(c *gin.Context) {
	connectedClients, lastBroadcastSeq := h.hub.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "herbtrace-service-events",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"connected_clients":  connectedClients,
		"last_broadcast_seq": lastBroadcastSeq,
	})
}
