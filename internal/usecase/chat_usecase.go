package usecase

import (
	"context"
	"sort"
	"time"

	"olicore/internal/domain/entity"
	"olicore/internal/domain/repository"
	ws "olicore/internal/infrastructure/websocket"
	"olicore/pkg/errors"
	"olicore/pkg/logger"
	"olicore/pkg/utils"
)

type ChatUseCase struct {
	friendshipRepo   repository.FriendshipRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	emitter          RealtimeEmitter
	notifier         *NotificationUseCase
}

func NewChatUseCase(
	friendshipRepo repository.FriendshipRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	emitter RealtimeEmitter,
	notifier *NotificationUseCase,
) *ChatUseCase {
	return &ChatUseCase{
		friendshipRepo:   friendshipRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		emitter:          emitter,
		notifier:         notifier,
	}
}

type StartConversationInput struct {
	RecipientID string
	Content     string
	Type        string
	ListingID   *string
}

type SendMessageInput struct {
	Content   string
	Type      string
	Amount    *float64
	ReplyToID *string
	MediaURL  *string
	MediaType *string
}

// MessageResponse carries the stored message plus the denormalized parent
// of a reply, so clients never need a second round trip to render it.
type MessageResponse struct {
	*entity.Message
	ReplyToContent  string `json:"reply_to_content,omitempty"`
	ReplyToSenderID string `json:"reply_to_sender_id,omitempty"`
}

type StartConversationResult struct {
	ConversationID string           `json:"conversation_id"`
	Message        *MessageResponse `json:"message"`
	IsNewRequest   bool             `json:"is_new_request"`
}

type ConversationSummary struct {
	ConversationID   string          `json:"conversation_id"`
	ListingID        *string         `json:"listing_id,omitempty"`
	OtherUser        *entity.User    `json:"other_user"`
	LastMessage      *entity.Message `json:"last_message,omitempty"`
	UnreadCount      int64           `json:"unread_count"`
	FriendshipStatus string          `json:"friendship_status,omitempty"`
	RequesterID      string          `json:"requester_id,omitempty"`
}

type MessagePage struct {
	Messages   []*MessageResponse `json:"messages"`
	NextCursor string             `json:"next_cursor,omitempty"`
	HasMore    bool               `json:"has_more"`
}

// gateResult is the friendship gate's verdict for one send attempt.
type gateResult struct {
	friendship   *entity.Friendship
	isNewRequest bool
}

// checkFriendshipGate decides whether sender may message recipient.
// No row: allowed, and a pending request row is created (losing the insert
// race to the mirrored request just means the row already exists).
// Pending: the requester may keep adding to the request; the addressee must
// accept explicitly before replying. Accepted: always allowed.
func (uc *ChatUseCase) checkFriendshipGate(ctx context.Context, senderID, recipientID string) (*gateResult, error) {
	friendship, err := uc.friendshipRepo.GetByPair(ctx, senderID, recipientID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if friendship == nil {
		fresh := &entity.Friendship{
			RequesterID: senderID,
			AddresseeID: recipientID,
			Status:      entity.FriendshipPending,
		}
		created, err := uc.friendshipRepo.Create(ctx, fresh)
		if err != nil {
			return nil, err
		}
		if created {
			return &gateResult{friendship: fresh, isNewRequest: true}, nil
		}
		// The mirrored request won the race; fall through to its row.
		friendship, err = uc.friendshipRepo.GetByPair(ctx, senderID, recipientID)
		if err != nil {
			return nil, err
		}
	}

	switch friendship.Status {
	case entity.FriendshipAccepted:
		return &gateResult{friendship: friendship}, nil
	case entity.FriendshipPending:
		if friendship.RequesterID == senderID {
			return &gateResult{friendship: friendship}, nil
		}
		return nil, errors.Forbidden("Accept the message request before replying", nil)
	default:
		return nil, errors.Forbidden("Messaging is not permitted between these users", nil)
	}
}

// StartConversation handles the first message between two users for a
// (pair, listing) combination: it runs the friendship gate, finds or
// creates the one conversation, stores the message and fans out delivery.
func (uc *ChatUseCase) StartConversation(ctx context.Context, senderID string, input StartConversationInput) (*StartConversationResult, error) {
	if input.RecipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if senderID == input.RecipientID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}
	if input.Content == "" {
		return nil, errors.BadRequest("Content is required", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}

	gate, err := uc.checkFriendshipGate(ctx, senderID, input.RecipientID)
	if err != nil {
		return nil, err
	}

	conversation, created, err := uc.conversationRepo.GetOrCreate(ctx, &entity.Conversation{
		ListingID: input.ListingID,
	}, senderID, input.RecipientID)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("Conversation %s created for pair (%s, %s)", conversation.ID, senderID, input.RecipientID)
	}

	messageType := input.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	message, err := uc.appendMessage(ctx, conversation, senderID, SendMessageInput{
		Content: input.Content,
		Type:    messageType,
	})
	if err != nil {
		return nil, err
	}

	uc.fanOutMessage(ctx, conversation, senderID, recipient.ID, message)
	if gate.isNewRequest {
		uc.emitter.EmitToUser(input.RecipientID, ws.EventNewRequest, map[string]interface{}{
			"from":            senderID,
			"conversation_id": conversation.ID,
			"message":         message.Message,
		})
	}

	return &StartConversationResult{
		ConversationID: conversation.ID,
		Message:        message,
		IsNewRequest:   gate.isNewRequest,
	}, nil
}

// SendMessage appends to an existing conversation.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, conversationID string, input SendMessageInput) (*MessageResponse, error) {
	if input.Content == "" && input.MediaURL == nil {
		return nil, errors.BadRequest("Content or media is required", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	isParticipant, err := uc.conversationRepo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	recipientID, err := uc.conversationRepo.OtherParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.checkFriendshipGate(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	message, err := uc.appendMessage(ctx, conversation, senderID, input)
	if err != nil {
		return nil, err
	}

	uc.fanOutMessage(ctx, conversation, senderID, recipientID, message)

	return message, nil
}

// appendMessage validates and persists one message, resolving the reply
// parent inline.
func (uc *ChatUseCase) appendMessage(ctx context.Context, conversation *entity.Conversation, senderID string, input SendMessageInput) (*MessageResponse, error) {
	messageType := input.Type
	if messageType == "" {
		if input.MediaURL != nil {
			messageType = entity.MessageTypeMedia
		} else {
			messageType = entity.MessageTypeText
		}
	}
	switch messageType {
	case entity.MessageTypeText, entity.MessageTypeMedia, entity.MessageTypeOffer:
	default:
		return nil, errors.BadRequest("Unknown message type", nil)
	}

	content := input.Content
	if content == "" && input.MediaURL != nil {
		content = "Attachment"
	}

	var parent *entity.Message
	if input.ReplyToID != nil && *input.ReplyToID != "" {
		var err error
		parent, err = uc.messageRepo.GetByID(ctx, *input.ReplyToID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return nil, errors.BadRequest("Reply target does not exist", err)
			}
			return nil, err
		}
		if parent.ConversationID != conversation.ID {
			return nil, errors.BadRequest("Reply target belongs to another conversation", nil)
		}
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Type:           messageType,
		Content:        content,
		Amount:         input.Amount,
		ReplyToID:      input.ReplyToID,
		MediaURL:       input.MediaURL,
		MediaType:      input.MediaType,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	response := &MessageResponse{Message: message}
	if parent != nil {
		response.ReplyToContent = parent.Content
		response.ReplyToSenderID = parent.SenderID
	}

	return response, nil
}

// fanOutMessage performs delivery after the message durably committed:
// live emit to both rooms, durable notification (with its own push leg)
// for the recipient. Nothing here can fail the send.
func (uc *ChatUseCase) fanOutMessage(ctx context.Context, conversation *entity.Conversation, senderID, recipientID string, message *MessageResponse) {
	payload := map[string]interface{}{
		"message":         message,
		"conversation_id": conversation.ID,
	}
	if conversation.ListingID != nil {
		payload["listing_id"] = *conversation.ListingID
	}

	uc.emitter.EmitToUser(recipientID, ws.EventNewMessage, payload)
	uc.emitter.EmitToUser(senderID, ws.EventNewMessage, payload)

	senderName := ""
	if sender, err := uc.userRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.Name
	}

	uc.notifier.NotifyNewMessage(ctx, recipientID, senderName, previewOf(message.Message), map[string]interface{}{
		"conversation_id": conversation.ID,
		"message_id":      message.ID,
		"sender_id":       senderID,
	})
}

func previewOf(message *entity.Message) string {
	switch message.Type {
	case entity.MessageTypeMedia:
		return "Sent an attachment"
	case entity.MessageTypeOffer:
		return "Sent an offer"
	default:
		// Truncate on a rune boundary; a byte slice could split a
		// multibyte character and ship invalid UTF-8 to the push provider.
		runes := []rune(message.Content)
		if len(runes) > 120 {
			return string(runes[:120])
		}
		return message.Content
	}
}

// AcceptFriendRequest flips the pending relation to accepted. Only the
// addressee may accept; accepting twice is a no-op.
func (uc *ChatUseCase) AcceptFriendRequest(ctx context.Context, userID, requesterID string) error {
	if userID == requesterID {
		return errors.BadRequest("You cannot accept your own request", nil)
	}

	friendship, err := uc.friendshipRepo.GetByPair(ctx, userID, requesterID)
	if err != nil {
		return err
	}

	if friendship.Status == entity.FriendshipAccepted {
		return nil
	}
	if friendship.RequesterID == userID {
		return errors.Forbidden("Only the addressee can accept this request", nil)
	}

	friendship.Status = entity.FriendshipAccepted
	if err := uc.friendshipRepo.Update(ctx, friendship); err != nil {
		return err
	}

	accepter := ""
	if user, err := uc.userRepo.GetByID(ctx, userID); err == nil {
		accepter = user.Name
	}
	if _, err := uc.notifier.NotifySystem(ctx, requesterID, "Request accepted",
		acceptedBody(accepter), map[string]interface{}{"user_id": userID}); err != nil {
		logger.Error("Failed to notify requester %s of acceptance: %v", requesterID, err)
	}

	return nil
}

func acceptedBody(name string) string {
	if name == "" {
		return "Your message request was accepted"
	}
	return name + " accepted your message request"
}

// MarkConversationRead flips is_read on everything the reader has not
// authored and tells the other participant when anything changed.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, conversationID, readerID string) error {
	isParticipant, err := uc.conversationRepo.IsParticipant(ctx, conversationID, readerID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}

	changed, err := uc.messageRepo.MarkConversationRead(ctx, conversationID, readerID)
	if err != nil {
		return err
	}

	if changed > 0 {
		if otherID, err := uc.conversationRepo.OtherParticipant(ctx, conversationID, readerID); err == nil {
			uc.emitter.EmitToUser(otherID, ws.EventMessagesRead, map[string]interface{}{
				"conversation_id": conversationID,
			})
		}
	}

	return nil
}

// ListConversations returns the user's conversations with the context a
// chat list needs: counterpart, last message, unread count, gate status.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationSummary, error) {
	conversations, err := uc.conversationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		otherID, err := uc.conversationRepo.OtherParticipant(ctx, conversation.ID, userID)
		if err != nil {
			logger.Warn("Conversation %s has no counterpart for user %s, skipping", conversation.ID, userID)
			continue
		}

		summary := &ConversationSummary{
			ConversationID: conversation.ID,
			ListingID:      conversation.ListingID,
		}

		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			summary.OtherUser = other
		} else {
			summary.OtherUser = &entity.User{ID: otherID}
		}

		if last, err := uc.messageRepo.LastInConversation(ctx, conversation.ID); err == nil {
			summary.LastMessage = last
		}

		if unread, err := uc.messageRepo.CountUnread(ctx, conversation.ID, userID); err == nil {
			summary.UnreadCount = unread
		}

		if friendship, err := uc.friendshipRepo.GetByPair(ctx, userID, otherID); err == nil {
			summary.FriendshipStatus = friendship.Status
			summary.RequesterID = friendship.RequesterID
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		var a, b time.Time
		if summaries[i].LastMessage != nil {
			a = summaries[i].LastMessage.CreatedAt
		}
		if summaries[j].LastMessage != nil {
			b = summaries[j].LastMessage.CreatedAt
		}
		return a.After(b)
	})

	return summaries, nil
}

// ListMessages pages through the history with the other user, ascending by
// (created_at, id). A listing filter narrows to that conversation; without
// one the pair's conversations are merged.
func (uc *ChatUseCase) ListMessages(ctx context.Context, requesterID, otherUserID string, listingID *string, cursor time.Time, cursorID string, limit int) (*MessagePage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	conversationIDs, err := uc.conversationRepo.ListIDsByPair(ctx, requesterID, otherUserID, listingID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListByConversations(ctx, conversationIDs, cursor, cursorID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		response := &MessageResponse{Message: message}
		if message.ReplyToID != nil && *message.ReplyToID != "" {
			if parent, err := uc.messageRepo.GetByID(ctx, *message.ReplyToID); err == nil {
				response.ReplyToContent = parent.Content
				response.ReplyToSenderID = parent.SenderID
			}
		}
		responses = append(responses, response)
	}

	page := &MessagePage{
		Messages: responses,
		HasMore:  len(messages) == limit,
	}
	if page.HasMore {
		last := messages[len(messages)-1]
		page.NextCursor = utils.NextCursor(last.CreatedAt, last.ID)
	}

	return page, nil
}
