package entity

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeMedia = "media"
	MessageTypeOffer = "offer"
)

// Message is immutable after creation except for IsRead.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"index:idx_messages_conv_created,priority:1"`
	SenderID       string    `json:"sender_id"`
	Type           string    `json:"type"` // "text", "media", "offer"
	Content        string    `json:"content"`
	Amount         *float64  `json:"amount,omitempty"`
	ReplyToID      *string   `json:"reply_to_id,omitempty"`
	MediaURL       *string   `json:"media_url,omitempty"`
	MediaType      *string   `json:"media_type,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_messages_conv_created,priority:2"`
}
