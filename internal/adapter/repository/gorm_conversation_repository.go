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

type gormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) GetOrCreate(ctx context.Context, conversation *entity.Conversation, userA, userB string) (*entity.Conversation, bool, error) {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.Type == "" {
		conversation.Type = "private"
	}
	conversation.PairKey = entity.PairKey(userA, userB, conversation.ListingID)

	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(conversation)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// A concurrent first message from either direction won the
			// insert; return the winning row to every caller.
			var existing entity.Conversation
			if err := tx.Where("pair_key = ?", conversation.PairKey).First(&existing).Error; err != nil {
				return err
			}
			*conversation = existing
			return nil
		}

		created = true
		participants := []entity.ConversationParticipant{
			{ConversationID: conversation.ID, UserID: userA, JoinedAt: now},
			{ConversationID: conversation.ID, UserID: userB, JoinedAt: now},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, false, apperrors.Internal("Failed to get or create conversation", err)
	}

	return conversation, created, nil
}

func (r *gormConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Conversation", err)
		}
		return nil, apperrors.Internal("Failed to get conversation", err)
	}

	return &conversation, nil
}

func (r *gormConversationRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("Failed to check participant", err)
	}

	return count > 0, nil
}

func (r *gormConversationRepository) OtherParticipant(ctx context.Context, conversationID, userID string) (string, error) {
	var participant entity.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id <> ?", conversationID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("Participant", err)
		}
		return "", apperrors.Internal("Failed to get participant", err)
	}

	return participant.UserID, nil
}

func (r *gormConversationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list conversations", err)
	}

	return conversations, nil
}

func (r *gormConversationRepository) ListIDsByPair(ctx context.Context, userA, userB string, listingID *string) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Joins("JOIN conversation_participants a ON a.conversation_id = conversations.id AND a.user_id = ?", userA).
		Joins("JOIN conversation_participants b ON b.conversation_id = conversations.id AND b.user_id = ?", userB)
	if listingID != nil && *listingID != "" {
		query = query.Where("conversations.listing_id = ?", *listingID)
	}

	var ids []string
	if err := query.Pluck("conversations.id", &ids).Error; err != nil {
		return nil, apperrors.Internal("Failed to list conversations for pair", err)
	}

	return ids, nil
}
