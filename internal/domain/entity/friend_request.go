package entity

import (
	"sort"
	"strings"
	"time"
)

type FriendRequest struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	CreatedBy  string     `json:"created_by" bson:"createdBy"`
	SendTo     string     `json:"send_to" bson:"sendTo"`
	PairKey    string     `json:"-" bson:"pairKey"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" bson:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"createdAt"`
}

// FriendPairKey is the canonical key for an unordered user pair. A unique
// index on it makes duplicate edges impossible even under concurrent sends.
func FriendPairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}
