package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"olicore/internal/domain/entity"
	"olicore/internal/domain/repository"
	apperrors "olicore/pkg/errors"
)

type gormDeviceTokenRepository struct {
	db *gorm.DB
}

func NewGormDeviceTokenRepository(db *gorm.DB) repository.DeviceTokenRepository {
	return &gormDeviceTokenRepository{db: db}
}

func (r *gormDeviceTokenRepository) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}

	now := time.Now()
	token.CreatedAt = now
	token.UpdatedAt = now

	// A token re-registered from a device that switched accounts moves to
	// the new owner instead of tripping the unique index.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
		}).
		Create(token).Error
	if err != nil {
		return apperrors.Internal("Failed to register device token", err)
	}

	return nil
}

func (r *gormDeviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]*entity.DeviceToken, error) {
	var tokens []*entity.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list device tokens", err)
	}

	return tokens, nil
}

func (r *gormDeviceTokenRepository) Delete(ctx context.Context, userID, token string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&entity.DeviceToken{})
	if result.Error != nil {
		return 0, apperrors.Internal("Failed to delete device token", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *gormDeviceTokenRepository) DeleteByTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("token IN ?", tokens).
		Delete(&entity.DeviceToken{})
	if result.Error != nil {
		return 0, apperrors.Internal("Failed to prune device tokens", result.Error)
	}

	return result.RowsAffected, nil
}
