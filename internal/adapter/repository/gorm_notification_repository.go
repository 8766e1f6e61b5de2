package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"olicore/internal/domain/entity"
	"olicore/internal/domain/repository"
	apperrors "olicore/pkg/errors"
)

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return apperrors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list notifications", err)
	}

	return notifications, nil
}

func (r *gormNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("Failed to count unread notifications", err)
	}

	return count, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Notification", err)
		}
		return nil, apperrors.Internal("Failed to get notification", err)
	}

	notification.IsRead = true
	notification.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return nil, apperrors.Internal("Failed to mark notification read", err)
	}

	return &notification, nil
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, apperrors.Internal("Failed to mark notifications read", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *gormNotificationRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Notification{})
	if result.Error != nil {
		return false, apperrors.Internal("Failed to delete notification", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, true).
		Delete(&entity.Notification{})
	if result.Error != nil {
		return 0, apperrors.Internal("Failed to delete read notifications", result.Error)
	}

	return result.RowsAffected, nil
}
