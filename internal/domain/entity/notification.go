package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeMessage      = "message"
	NotificationTypeOrder        = "order"
	NotificationTypeOffer        = "offer"
	NotificationTypeAnnouncement = "announcement"
	NotificationTypeSystem       = "system"
)

// Notification is the durable record of one fanout event. It survives
// regardless of socket or push delivery and backs unread badges.
type Notification struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"user_id" gorm:"index"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      datatypes.JSON `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
