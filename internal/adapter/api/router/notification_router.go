package router

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/adapter/api/handler"
	"olicore/internal/adapter/api/middleware"
)

// SetupNotificationRouter sets up notification and device token routes.
func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, deviceTokenHandler *handler.DeviceTokenHandler, authMiddleware *middleware.AuthMiddleware) {
	notifGroup := e.Group("/v1/notifications")
	notifGroup.Use(authMiddleware.Authenticate)

	notifGroup.GET("", notificationHandler.ListNotifications)
	notifGroup.GET("/unread-count", notificationHandler.UnreadCount)
	notifGroup.PUT("/:id/read", notificationHandler.MarkRead)
	notifGroup.PUT("/read-all", notificationHandler.MarkAllRead)
	notifGroup.DELETE("/:id", notificationHandler.Delete)
	notifGroup.DELETE("/read", notificationHandler.DeleteRead)

	tokenGroup := e.Group("/v1/device-tokens")
	tokenGroup.Use(authMiddleware.Authenticate)

	tokenGroup.POST("", deviceTokenHandler.Register)
	tokenGroup.DELETE("", deviceTokenHandler.Unregister)
}
