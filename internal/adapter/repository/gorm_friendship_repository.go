package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"olicore/internal/domain/entity"
	"olicore/internal/domain/repository"
	apperrors "olicore/pkg/errors"
)

type gormFriendshipRepository struct {
	db *gorm.DB
}

func NewGormFriendshipRepository(db *gorm.DB) repository.FriendshipRepository {
	return &gormFriendshipRepository{db: db}
}

func (r *gormFriendshipRepository) Create(ctx context.Context, friendship *entity.Friendship) (bool, error) {
	if friendship.ID == "" {
		friendship.ID = uuid.New().String()
	}
	friendship.UserLo, friendship.UserHi = entity.SortPair(friendship.RequesterID, friendship.AddresseeID)

	now := time.Now()
	friendship.CreatedAt = now
	friendship.UpdatedAt = now

	// Losing the insert race to the mirrored request is expected; the
	// caller re-reads and proceeds with the winning row.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(friendship)
	if result.Error != nil {
		return false, apperrors.Internal("Failed to create friendship", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *gormFriendshipRepository) GetByPair(ctx context.Context, userA, userB string) (*entity.Friendship, error) {
	lo, hi := entity.SortPair(userA, userB)

	var friendship entity.Friendship
	err := r.db.WithContext(ctx).
		Where("user_lo = ? AND user_hi = ?", lo, hi).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Friendship", err)
		}
		return nil, apperrors.Internal("Failed to get friendship", err)
	}

	return &friendship, nil
}

func (r *gormFriendshipRepository) Update(ctx context.Context, friendship *entity.Friendship) error {
	friendship.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(friendship).Error; err != nil {
		return apperrors.Internal("Failed to update friendship", err)
	}

	return nil
}
