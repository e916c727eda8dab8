package entity

import "time"

// RevokedToken records a revoked JTI until its natural expiry.
type RevokedToken struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	JTI       string    `json:"jti" bson:"jti"`
	UserID    string    `json:"user_id" bson:"userId"`
	ExpiresAt time.Time `json:"expires_at" bson:"expiresAt"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
