package entity

import "time"

// DeviceToken is an opaque push-provider address for one installed app
// instance. The token itself is globally unique; re-registration under a
// different user reassigns ownership.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	Platform  string    `json:"platform"` // "android", "ios", "web"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
