package entity

import "time"

type Availability string

const (
	AvailabilityPublic  Availability = "public"
	AvailabilityFriends Availability = "friends"
	AvailabilityOnlyMe  Availability = "only-me"
)

type AllowComments string

const (
	AllowCommentsAllow AllowComments = "allow"
	AllowCommentsDeny  AllowComments = "deny"
)

type Post struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	Content       string        `json:"content,omitempty" bson:"content,omitempty"`
	Attachments   []string      `json:"attachments,omitempty" bson:"attachments,omitempty"`
	AssetsFolder  string        `json:"-" bson:"assetsFolderId,omitempty"`
	Availability  Availability  `json:"availability" bson:"availability"`
	AllowComments AllowComments `json:"allow_comments" bson:"allowComments"`
	Tags          []string      `json:"tags,omitempty" bson:"tags,omitempty"`
	Likes         []string      `json:"likes,omitempty" bson:"likes,omitempty"`
	CreatedBy     string        `json:"created_by" bson:"createdBy"`

	FreezedAt  *time.Time `json:"freezed_at,omitempty" bson:"freezedAt,omitempty"`
	FreezedBy  string     `json:"-" bson:"freezedBy,omitempty"`
	RestoredAt *time.Time `json:"-" bson:"restoredAt,omitempty"`
	RestoredBy string     `json:"-" bson:"restoredBy,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`

	// Comments is the three-level tree attached by the feed projection.
	// Never persisted.
	Comments []*Comment `json:"comments,omitempty" bson:"-"`
}
