package repository

import (
	"context"

	"olicore/internal/domain/entity"
)

type DeviceTokenRepository interface {
	// Upsert registers the token, reassigning ownership when the token is
	// already registered under another user.
	Upsert(ctx context.Context, token *entity.DeviceToken) error
	ListByUser(ctx context.Context, userID string) ([]*entity.DeviceToken, error)
	Delete(ctx context.Context, userID, token string) (int64, error)
	// DeleteByTokens removes tokens the push provider reported as
	// permanently invalid.
	DeleteByTokens(ctx context.Context, tokens []string) (int64, error)
}
