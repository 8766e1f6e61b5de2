package repository

import (
	"context"

	"olicore/internal/domain/entity"
)

type FriendshipRepository interface {
	// Create inserts the row unless one already exists for the unordered
	// pair. Returns false when a concurrent or earlier insert won; that is
	// not an error.
	Create(ctx context.Context, friendship *entity.Friendship) (bool, error)
	GetByPair(ctx context.Context, userA, userB string) (*entity.Friendship, error)
	Update(ctx context.Context, friendship *entity.Friendship) error
}
