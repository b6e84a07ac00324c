package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuschat/internal/handlers"
)

func APIEndpoints(
	r *gin.Engine,
	roomH *handlers.RoomHandler,
	messageH *handlers.MessageHandler,
	wsH *handlers.WebSocketHandler,
	uploadH *handlers.UploadHandler,
) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rooms := api.Group("/chatrooms")
	{
		rooms.GET("", roomH.ListRooms)
		rooms.POST("", roomH.CreateRoom)
		rooms.GET("/:id/members", roomH.ListMembers)
		rooms.POST("/:id/members", roomH.UpdateMembers)
		rooms.DELETE("/:id/members/:user_id", roomH.RemoveMember)
		rooms.POST("/:id/clear", roomH.ClearRoom)
		rooms.GET("/:id/online", roomH.Online)
	}

	api.POST("/dm", roomH.ResolveDM)

	// The :id segment is the room id for history/search/send and the message
	// id for the per-message operations.
	messages := api.Group("/messages")
	{
		messages.GET("/:id", messageH.History)
		messages.GET("/:id/search", messageH.Search)
		messages.POST("/:id", messageH.Send)
		messages.PATCH("/:id", messageH.Edit)
		messages.DELETE("/:id", messageH.Delete)
		messages.POST("/:id/hide", messageH.Hide)
		messages.POST("/:id/read", messageH.MarkRead)
	}

	api.POST("/uploads", uploadH.Upload)
	api.GET("/uploads/:id", uploadH.Download)

	api.GET("/ws/:id", wsH.HandleWebSocket)
}
