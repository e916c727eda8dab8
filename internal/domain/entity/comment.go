package entity

import "time"

type Comment struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	PostID      string   `json:"post_id" bson:"postId"`
	ParentID    string   `json:"parent_id,omitempty" bson:"commentId,omitempty"`
	Content     string   `json:"content,omitempty" bson:"content,omitempty"`
	Attachments []string `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Likes       []string `json:"likes,omitempty" bson:"likes,omitempty"`
	CreatedBy   string   `json:"created_by" bson:"createdBy"`

	FreezedAt *time.Time `json:"freezed_at,omitempty" bson:"freezedAt,omitempty"`
	FreezedBy string     `json:"-" bson:"freezedBy,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`

	// Replies is populated by the feed projection, one level at a time,
	// capped at three levels total. Never persisted.
	Replies []*Comment `json:"replies,omitempty" bson:"-"`
}
