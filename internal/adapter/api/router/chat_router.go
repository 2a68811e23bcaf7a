package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

// Chat routes use OptionalAuthenticate: anonymous visitors get a
// SIGN_IN_REQUIRED error from the use case, which clients turn into a
// login prompt.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.OptionalAuthenticate)
	chats.POST("", chatHandler.CreateThread)
	chats.GET("", chatHandler.ListThreads)
	chats.GET("/unread-counts", chatHandler.UnreadCounts)
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/read", chatHandler.MarkThreadRead)
}
