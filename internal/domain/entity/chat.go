package entity

import "time"

// Message is one entry in a chat's append-only message list.
type Message struct {
	ID            string    `json:"id" bson:"id"`
	Content       string    `json:"content" bson:"content"`
	CreatedBy     string    `json:"created_by" bson:"createdBy"`
	AttachmentKey string    `json:"attachment_key,omitempty" bson:"attachmentKey,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
}

// Chat is a conversation document. Direct chats have exactly two
// participants and no group name; group chats carry Group, a room id and
// optionally an image. Messages are embedded, chronological, append-only.
type Chat struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Participants  []string  `json:"participants" bson:"participants"`
	Group         string    `json:"group,omitempty" bson:"group,omitempty"`
	RoomID        string    `json:"room_id,omitempty" bson:"roomId,omitempty"`
	GroupImageKey string    `json:"group_image_key,omitempty" bson:"groupImageKey,omitempty"`
	CreatedBy     string    `json:"created_by" bson:"createdBy"`
	Messages      []Message `json:"messages" bson:"messages"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

func (c *Chat) IsGroup() bool {
	return c.Group != ""
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
