package router

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/adapter/api/handler"
	"olicore/internal/adapter/api/middleware"
)

// SetupChatRouter sets up conversation, message and friendship routes.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, uploadHandler *handler.UploadHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.StartConversation)         // POST /v1/chats - first message, creates conversation
	chatGroup.GET("", chatHandler.ListConversations)          // GET /v1/chats - conversation summaries
	chatGroup.PUT("/:id/read", chatHandler.MarkConversationRead) // PUT /v1/chats/:id/read
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)  // POST /v1/chats/:id/messages
	chatGroup.GET("/with/:userId", chatHandler.ListMessages)  // GET /v1/chats/with/:userId - message history
	chatGroup.POST("/upload", uploadHandler.UploadChatMedia)  // POST /v1/chats/upload - media upload

	friendGroup := e.Group("/v1/friends")
	friendGroup.Use(authMiddleware.Authenticate)
	friendGroup.POST("/accept", chatHandler.AcceptFriendRequest) // POST /v1/friends/accept
}
