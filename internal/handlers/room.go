package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campuschat/internal/handlers/dto"
	"campuschat/internal/presence"
	"campuschat/internal/services"
)

type RoomHandler struct {
	rooms    *services.RoomService
	chat     *services.ChatService
	presence *presence.Store
}

func NewRoomHandler(rooms *services.RoomService, chat *services.ChatService, presence *presence.Store) *RoomHandler {
	return &RoomHandler{rooms: rooms, chat: chat, presence: presence}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListRooms()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.CreateRoom(req.Name, req.Type, req.Visibility, req.Meta)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ResolveDM returns the private room for a user pair, creating it on first
// use. Calling it with the arguments swapped yields the same room.
func (h *RoomHandler) ResolveDM(c *gin.Context) {
	var req dto.ResolveDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserA == req.UserB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open a dm with yourself"})
		return
	}

	room, err := h.rooms.ResolveDM(req.UserA, req.UserB)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) UpdateMembers(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	var req dto.UpdateMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.UpdateMembers(roomID, req.Add, req.Remove); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RoomHandler) RemoveMember(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	userID := c.Param("user_id")

	if err := h.rooms.UpdateMembers(roomID, nil, []string{userID}); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RoomHandler) ListMembers(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	members, err := h.rooms.Members(roomID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// ClearRoom advances the caller's clear watermark; other users' history is
// untouched and nothing is broadcast.
func (h *RoomHandler) ClearRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.chat.ClearRoom(roomID, req.UserID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RoomHandler) Online(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	users, err := h.presence.Online(c.Request.Context(), roomID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "online": users})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
