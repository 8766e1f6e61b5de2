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

type gormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		// Bump conversation recency so summaries sort correctly.
		return tx.Model(&entity.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt).Error
	})
	if err != nil {
		return apperrors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *gormMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var message entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Message", err)
		}
		return nil, apperrors.Internal("Failed to get message", err)
	}

	return &message, nil
}

func (r *gormMessageRepository) ListByConversations(ctx context.Context, conversationIDs []string, cursor time.Time, cursorID string, limit int) ([]*entity.Message, error) {
	if len(conversationIDs) == 0 {
		return []*entity.Message{}, nil
	}

	query := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIDs)
	if !cursor.IsZero() {
		if cursorID != "" {
			// Row comparison so messages sharing the boundary timestamp
			// are not lost between pages.
			query = query.Where("(created_at, id) > (?, ?)", cursor, cursorID)
		} else {
			query = query.Where("created_at > ?", cursor)
		}
	}

	var messages []*entity.Message
	err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list messages", err)
	}

	return messages, nil
}

func (r *gormMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Internal("Failed to mark messages read", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *gormMessageRepository) LastInConversation(ctx context.Context, conversationID string) (*entity.Message, error) {
	var message entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Message", err)
		}
		return nil, apperrors.Internal("Failed to get last message", err)
	}

	return &message, nil
}

func (r *gormMessageRepository) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("Failed to count unread messages", err)
	}

	return count, nil
}
