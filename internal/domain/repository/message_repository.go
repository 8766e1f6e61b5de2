package repository

import (
	"context"
	"time"

	"olicore/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	// ListByConversations returns messages across the given conversations,
	// ascending by (created_at, id), strictly after the cursor when it is
	// set. The id component keeps rows sharing a timestamp from being
	// skipped at page boundaries.
	ListByConversations(ctx context.Context, conversationIDs []string, cursor time.Time, cursorID string, limit int) ([]*entity.Message, error)
	// MarkConversationRead flips is_read on every unread message in the
	// conversation not authored by readerID and reports how many changed.
	MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error)
	LastInConversation(ctx context.Context, conversationID string) (*entity.Message, error)
	CountUnread(ctx context.Context, conversationID, readerID string) (int64, error)
}
