package repository

import (
	"context"

	"olicore/internal/domain/entity"
)

type ConversationRepository interface {
	// GetOrCreate returns the one conversation for the participant pair and
	// listing, creating it together with both participant rows atomically.
	// Concurrent first messages from both directions resolve to the same
	// row; the bool reports whether this call created it.
	GetOrCreate(ctx context.Context, conversation *entity.Conversation, userA, userB string) (*entity.Conversation, bool, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	OtherParticipant(ctx context.Context, conversationID, userID string) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error)
	// ListIDsByPair returns ids of all conversations between the pair,
	// optionally restricted to one listing.
	ListIDsByPair(ctx context.Context, userA, userB string, listingID *string) ([]string, error)
}
