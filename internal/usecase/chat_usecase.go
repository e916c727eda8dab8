package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/internal/infrastructure/websocket"
	apperrors "sociogram/pkg/errors"
	"sociogram/pkg/logger"
)

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	storage  FileStorage
	gateway  Gateway
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, storage FileStorage, gateway Gateway) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		storage:  storage,
		gateway:  gateway,
	}
}

// GetDirect returns the conversation with another user, messages windowed
// from the tail: page 1 is the most recent size messages.
func (uc *ChatUseCase) GetDirect(ctx context.Context, user *entity.User, otherID string, page, size int) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetDirectWindow(ctx, user.ID, otherID, page, size)
	if err != nil {
		return nil, apperrors.Internal("Failed to load chat", err)
	}
	if chat == nil {
		return nil, apperrors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) GetGroup(ctx context.Context, user *entity.User, groupID string, page, size int) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetGroupWindow(ctx, groupID, user.ID, page, size)
	if err != nil {
		return nil, apperrors.Internal("Failed to load group chat", err)
	}
	if chat == nil {
		return nil, apperrors.NotFound("Group chat", nil)
	}
	return chat, nil
}

type CreateGroupInput struct {
	Group        string
	Participants []string
}

// CreateGroup opens a group chat. Every invited participant must already
// be a friend of the creator.
func (uc *ChatUseCase) CreateGroup(ctx context.Context, creator *entity.User, input CreateGroupInput) (*entity.Chat, error) {
	participants := []string{creator.ID}
	seen := map[string]bool{creator.ID: true}
	for _, id := range input.Participants {
		if seen[id] {
			continue
		}
		if !creator.IsFriend(id) {
			return nil, apperrors.BadRequest("All participants must be your friends", nil)
		}
		seen[id] = true
		participants = append(participants, id)
	}
	if len(participants) < 2 {
		return nil, apperrors.BadRequest("A group needs at least one other participant", nil)
	}

	now := time.Now()
	chat := &entity.Chat{
		Participants: participants,
		Group:        input.Group,
		RoomID:       uuid.NewString(),
		CreatedBy:    creator.ID,
		Messages:     []entity.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, apperrors.Internal("Failed to create group", err)
	}
	return chat, nil
}

// UploadGroupImage stores a picture for a group the caller created.
func (uc *ChatUseCase) UploadGroupImage(ctx context.Context, user *entity.User, groupID string, file io.Reader, size int64, filename, contentType string) (string, error) {
	key := fmt.Sprintf("chats/%s/%s%s", groupID, uuid.NewString(), path.Ext(filename))
	if _, err := uc.storage.Upload(ctx, key, file, size, contentType); err != nil {
		return "", err
	}
	err := uc.chatRepo.SetGroupImage(ctx, groupID, user.ID, key)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", apperrors.NotFound("Group chat", nil)
	}
	if err != nil {
		return "", apperrors.Internal("Failed to store group image", err)
	}
	return key, nil
}

type DirectMessageInput struct {
	Content string
	SendTo  string
}

// SendDirect persists the message first, then fans it out to the
// recipient's live connection if there is one. Delivery is best effort;
// storage is the source of truth.
func (uc *ChatUseCase) SendDirect(ctx context.Context, sender *entity.User, input DirectMessageInput) (*entity.Message, error) {
	if input.Content == "" {
		return nil, apperrors.BadRequest("Message content is required", nil)
	}
	if !sender.IsFriend(input.SendTo) {
		return nil, apperrors.Forbidden("You can only message friends", nil)
	}

	message := entity.Message{
		ID:        uuid.NewString(),
		Content:   input.Content,
		CreatedBy: sender.ID,
		CreatedAt: time.Now(),
	}
	chatID, err := uc.chatRepo.AppendDirectMessage(ctx, sender.ID, input.SendTo, message)
	if err != nil {
		return nil, apperrors.Internal("Failed to store message", err)
	}

	frame := websocket.Marshal(websocket.EventNewMessage, map[string]interface{}{
		"chatId":  chatID,
		"from":    sender.ID,
		"message": message,
	})
	if !uc.gateway.SendToUser(input.SendTo, frame) {
		logger.Debug("recipient %s offline, message %s stored only", input.SendTo, message.ID)
	}
	return &message, nil
}

type GroupMessageInput struct {
	Content string
	GroupID string
}

// SendGroup appends to the group and fans out to every participant that
// is online, except the sender.
func (uc *ChatUseCase) SendGroup(ctx context.Context, sender *entity.User, input GroupMessageInput) (*entity.Message, error) {
	if input.Content == "" {
		return nil, apperrors.BadRequest("Message content is required", nil)
	}

	message := entity.Message{
		ID:        uuid.NewString(),
		Content:   input.Content,
		CreatedBy: sender.ID,
		CreatedAt: time.Now(),
	}
	err := uc.chatRepo.AppendGroupMessage(ctx, input.GroupID, sender.ID, message)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("Group chat", nil)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to store message", err)
	}

	group, err := uc.chatRepo.GetGroup(ctx, input.GroupID, sender.ID)
	if err != nil || group == nil {
		logger.Warn("stored group message but could not load %s for fan-out: %v", input.GroupID, err)
		return &message, nil
	}

	frame := websocket.Marshal(websocket.EventNewGroupMessage, map[string]interface{}{
		"groupId": group.ID,
		"roomId":  group.RoomID,
		"from":    sender.ID,
		"message": message,
	})
	uc.gateway.FanOut(group.Participants, sender.ID, frame)
	return &message, nil
}

// ListGroups returns the group chats the user participates in, without
// message bodies.
func (uc *ChatUseCase) ListGroups(ctx context.Context, user *entity.User) ([]*entity.Chat, error) {
	groups, err := uc.chatRepo.ListGroupsByParticipant(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list groups", err)
	}
	return groups, nil
}

// OnDirectMessage handles a send_message frame from the realtime channel.
// Failures are reported back on the sender's connection instead of an
// HTTP response.
func (uc *ChatUseCase) OnDirectMessage(ctx context.Context, sender *websocket.Client, payload websocket.DirectMessagePayload) {
	user, err := uc.userRepo.GetByID(ctx, sender.UserID)
	if err != nil || user == nil {
		uc.sendError(sender.UserID, "Account not found")
		return
	}
	message, err := uc.SendDirect(ctx, user, DirectMessageInput{Content: payload.Content, SendTo: payload.SendTo})
	if err != nil {
		uc.sendError(sender.UserID, errorMessage(err))
		return
	}
	uc.gateway.SendToUser(sender.UserID, websocket.Marshal(websocket.EventSuccessMessage, message))
}

// OnGroupMessage handles a send_group_message frame.
func (uc *ChatUseCase) OnGroupMessage(ctx context.Context, sender *websocket.Client, payload websocket.GroupMessagePayload) {
	user, err := uc.userRepo.GetByID(ctx, sender.UserID)
	if err != nil || user == nil {
		uc.sendError(sender.UserID, "Account not found")
		return
	}
	message, err := uc.SendGroup(ctx, user, GroupMessageInput{Content: payload.Content, GroupID: payload.GroupID})
	if err != nil {
		uc.sendError(sender.UserID, errorMessage(err))
		return
	}
	uc.gateway.SendToUser(sender.UserID, websocket.Marshal(websocket.EventSuccessMessage, message))
}

func (uc *ChatUseCase) sendError(userID, message string) {
	uc.gateway.SendToUser(userID, websocket.Marshal(websocket.EventError, map[string]string{"message": message}))
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong"
}
