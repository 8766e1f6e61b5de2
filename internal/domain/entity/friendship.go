package entity

import "time"

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship gates free-form messaging between two users. The pair is
// stored sorted (UserLo < UserHi) with a unique index, so at most one row
// exists per unordered pair no matter which side created it.
type Friendship struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserLo      string    `json:"-" gorm:"uniqueIndex:idx_friendship_pair"`
	UserHi      string    `json:"-" gorm:"uniqueIndex:idx_friendship_pair"`
	RequesterID string    `json:"requester_id"`
	AddresseeID string    `json:"addressee_id"`
	Status      string    `json:"status"` // "pending", "accepted"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SortPair returns the two user ids in lexical order.
func SortPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
