package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"olicore/internal/infrastructure/storage"
	"olicore/pkg/errors"
	"olicore/pkg/response"
)

type UploadHandler struct {
	storageClient *storage.CloudStorageClient
}

func NewUploadHandler(storageClient *storage.CloudStorageClient) *UploadHandler {
	return &UploadHandler{
		storageClient: storageClient,
	}
}

// UploadChatMedia accepts one multipart file and returns the stored URL
// plus a coarse type the client uses to render the message bubble.
func (h *UploadHandler) UploadChatMedia(c echo.Context) error {
	fileHeader, err := c.FormFile("chat_file")
	if err != nil {
		return response.Error(c, errors.BadRequest("No file provided", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read upload", err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.storageClient.UploadChatMedia(c.Request().Context(), file, contentType)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	mediaType := "file"
	switch {
	case strings.HasPrefix(contentType, "image/"):
		mediaType = "image"
	case strings.HasPrefix(contentType, "audio/"):
		mediaType = "audio"
	}

	return response.Success(c, map[string]string{
		"url":  url,
		"type": mediaType,
	})
}
