package handler

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/usecase"
	"olicore/pkg/response"
)

type DeviceTokenHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewDeviceTokenHandler(notificationUseCase *usecase.NotificationUseCase) *DeviceTokenHandler {
	return &DeviceTokenHandler{
		notificationUseCase: notificationUseCase,
	}
}

type registerTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios web"`
}

type unregisterTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Register upserts the device token for the authenticated user.
func (h *DeviceTokenHandler) Register(c echo.Context) error {
	var req registerTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.RegisterDeviceToken(c.Request().Context(), userID, req.Token, req.Platform); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "registered"})
}

// Unregister removes the token, typically at logout.
func (h *DeviceTokenHandler) Unregister(c echo.Context) error {
	var req unregisterTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.UnregisterDeviceToken(c.Request().Context(), userID, req.Token); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "unregistered"})
}
