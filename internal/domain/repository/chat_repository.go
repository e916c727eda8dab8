package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	// GetDirectWindow returns the direct chat between the two users with its
	// message list windowed from the tail: page 1 is the most recent size
	// messages, page 2 the size before that.
	GetDirectWindow(ctx context.Context, userID, otherID string, page, size int) (*entity.Chat, error)
	// GetGroupWindow does the same for a group chat the user participates in.
	GetGroupWindow(ctx context.Context, groupID, userID string, page, size int) (*entity.Chat, error)
	GetGroup(ctx context.Context, groupID string, participantID string) (*entity.Chat, error)
	// AppendDirectMessage pushes onto the direct chat between the two users,
	// creating the chat if absent, and returns the chat's id.
	AppendDirectMessage(ctx context.Context, userID, otherID string, message entity.Message) (string, error)
	AppendGroupMessage(ctx context.Context, groupID, senderID string, message entity.Message) error
	// SetGroupImage stores the image key on a group the user created.
	SetGroupImage(ctx context.Context, groupID, createdBy, imageKey string) error
	ListGroupsByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error)
}
