package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"campuschat/internal/presence"
	"campuschat/internal/services"
	ws "campuschat/internal/websocket"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	rooms    *services.RoomService
	presence *presence.Store
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, rooms *services.RoomService, presence *presence.Store) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		rooms:    rooms,
		presence: presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origin once the portal's domains are fixed
				return true
			},
		},
	}
}

// HandleWebSocket opens the per-room subscription channel. The connection is
// registered under exactly one room and receives every event published for
// it until it closes; there is no buffering or replay, clients catch up via
// the history endpoint.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	userName := c.Query("user_name")

	if _, err := h.rooms.GetRoom(roomID); err != nil {
		abortWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, roomID, userID, userName)
	h.hub.Subscribe(roomID, client)

	// The request context dies with the connection, so presence writes use
	// their own.
	if err := h.presence.Join(context.Background(), roomID, userID); err != nil {
		log.Printf("presence join failed: %v", err)
	}

	go client.WritePump()
	client.ReadPump()

	// ReadPump has unsubscribed the connection by the time it returns.
	if err := h.presence.Leave(context.Background(), roomID, userID); err != nil {
		log.Printf("presence leave failed: %v", err)
	}
}
