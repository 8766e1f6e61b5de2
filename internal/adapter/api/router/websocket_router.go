package router

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the realtime websocket endpoint.
// Authentication happens inside the handler before the upgrade.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
