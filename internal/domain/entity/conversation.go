package entity

import "time"

// Conversation is a durable channel between exactly two participants,
// optionally scoped to one listing. PairKey collapses the (sorted pair,
// listing) combination into a single uniquely-indexed column; a plain
// composite unique index would treat NULL listings as distinct rows.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type"` // "private"
	ListingID *string   `json:"listing_id,omitempty"`
	PairKey   string    `json:"-" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationParticipant struct {
	ConversationID string    `json:"conversation_id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"primaryKey;index"`
	JoinedAt       time.Time `json:"joined_at"`
}

// PairKey builds the dedup key for a (pair, listing) combination.
func PairKey(userA, userB string, listingID *string) string {
	lo, hi := SortPair(userA, userB)
	listing := "-"
	if listingID != nil && *listingID != "" {
		listing = *listingID
	}
	return lo + "|" + hi + "|" + listing
}
