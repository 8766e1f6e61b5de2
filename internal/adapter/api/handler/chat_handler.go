package handler

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/usecase"
	"olicore/pkg/response"
	"olicore/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	RecipientID string  `json:"recipient_id" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	Type        string  `json:"type" validate:"omitempty,oneof=text media offer"`
	ListingID   *string `json:"listing_id"`
}

type sendMessageRequest struct {
	Content   string   `json:"content"`
	Type      string   `json:"type" validate:"omitempty,oneof=text media offer"`
	Amount    *float64 `json:"amount"`
	ReplyToID *string  `json:"reply_to_id"`
	MediaURL  *string  `json:"media_url" validate:"omitempty,url"`
	MediaType *string  `json:"media_type"`
}

type acceptRequestRequest struct {
	RequesterID string `json:"requester_id" validate:"required"`
}

// StartConversation sends the first message to a user about a listing,
// creating the conversation (and pending friendship) as needed.
func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.chatUseCase.StartConversation(c.Request().Context(), userID, usecase.StartConversationInput{
		RecipientID: req.RecipientID,
		Content:     req.Content,
		Type:        req.Type,
		ListingID:   req.ListingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

// SendMessage appends a message to an existing conversation.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, conversationID, usecase.SendMessageInput{
		Content:   req.Content,
		Type:      req.Type,
		Amount:    req.Amount,
		ReplyToID: req.ReplyToID,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// AcceptFriendRequest lets the addressee of a pending request unlock
// free-form replies.
func (h *ChatHandler) AcceptFriendRequest(c echo.Context) error {
	var req acceptRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.chatUseCase.AcceptFriendRequest(c.Request().Context(), userID, req.RequesterID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "accepted"})
}

// MarkConversationRead flips read state and triggers the read receipt.
func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	if err := h.chatUseCase.MarkConversationRead(c.Request().Context(), conversationID, userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}

// ListConversations returns the authenticated user's chat list.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries, err := h.chatUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summaries)
}

// ListMessages pages through message history with another user.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	otherUserID := c.Param("userId")

	var listingID *string
	if raw := c.QueryParam("listing_id"); raw != "" {
		listingID = &raw
	}

	params := utils.GetCursorParams(c)

	page, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, otherUserID, listingID, params.Cursor, params.CursorID, params.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, page)
}
