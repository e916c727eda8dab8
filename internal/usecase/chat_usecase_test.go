package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"sociogram/internal/domain/entity"
	"sociogram/internal/infrastructure/websocket"
	apperrors "sociogram/pkg/errors"
)

type fakeChatRepo struct {
	chats map[string]*entity.Chat
}

func newFakeChatRepo(chats ...*entity.Chat) *fakeChatRepo {
	repo := &fakeChatRepo{chats: map[string]*entity.Chat{}}
	for _, c := range chats {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		repo.chats[c.ID] = c
	}
	return repo
}

func (r *fakeChatRepo) Create(_ context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) direct(userID, otherID string) *entity.Chat {
	for _, c := range r.chats {
		if !c.IsGroup() && len(c.Participants) == 2 && c.HasParticipant(userID) && c.HasParticipant(otherID) {
			return c
		}
	}
	return nil
}

func window(chat *entity.Chat, page, size int) *entity.Chat {
	if chat == nil {
		return nil
	}
	out := *chat
	total := len(chat.Messages)
	skip := (page - 1) * size
	if skip >= total {
		out.Messages = []entity.Message{}
		return &out
	}
	length := total - skip
	if length > size {
		length = size
	}
	start := total - skip - length
	out.Messages = chat.Messages[start : start+length]
	return &out
}

func (r *fakeChatRepo) GetDirectWindow(_ context.Context, userID, otherID string, page, size int) (*entity.Chat, error) {
	return window(r.direct(userID, otherID), page, size), nil
}

func (r *fakeChatRepo) GetGroupWindow(_ context.Context, groupID, userID string, page, size int) (*entity.Chat, error) {
	chat := r.chats[groupID]
	if chat == nil || !chat.IsGroup() || !chat.HasParticipant(userID) {
		return nil, nil
	}
	return window(chat, page, size), nil
}

func (r *fakeChatRepo) GetGroup(_ context.Context, groupID string, participantID string) (*entity.Chat, error) {
	chat := r.chats[groupID]
	if chat == nil || !chat.IsGroup() || !chat.HasParticipant(participantID) {
		return nil, nil
	}
	return chat, nil
}

func (r *fakeChatRepo) AppendDirectMessage(_ context.Context, userID, otherID string, message entity.Message) (string, error) {
	chat := r.direct(userID, otherID)
	if chat == nil {
		chat = &entity.Chat{
			ID:           uuid.NewString(),
			Participants: []string{userID, otherID},
			CreatedBy:    userID,
		}
		r.chats[chat.ID] = chat
	}
	chat.Messages = append(chat.Messages, message)
	return chat.ID, nil
}

func (r *fakeChatRepo) AppendGroupMessage(_ context.Context, groupID, senderID string, message entity.Message) error {
	chat := r.chats[groupID]
	if chat == nil || !chat.IsGroup() || !chat.HasParticipant(senderID) {
		return mongo.ErrNoDocuments
	}
	chat.Messages = append(chat.Messages, message)
	return nil
}

func (r *fakeChatRepo) SetGroupImage(_ context.Context, groupID, createdBy, imageKey string) error {
	chat := r.chats[groupID]
	if chat == nil || !chat.IsGroup() || chat.CreatedBy != createdBy {
		return mongo.ErrNoDocuments
	}
	chat.GroupImageKey = imageKey
	return nil
}

func (r *fakeChatRepo) ListGroupsByParticipant(_ context.Context, userID string) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, c := range r.chats {
		if c.IsGroup() && c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func frameEvent(t *testing.T, frame []byte) string {
	t.Helper()
	var envelope websocket.Envelope
	require.NoError(t, json.Unmarshal(frame, &envelope))
	return envelope.Event
}

func TestSendDirectPersistsThenDelivers(t *testing.T) {
	alice := &entity.User{ID: "alice", Friends: []string{"bob"}}
	chatRepo := newFakeChatRepo()
	gateway := newFakeGateway("bob")
	uc := NewChatUseCase(chatRepo, newFakeUserRepo(alice), newFakeStorage(), gateway)

	message, err := uc.SendDirect(context.Background(), alice, DirectMessageInput{Content: "hi", SendTo: "bob"})
	require.NoError(t, err)

	chat := chatRepo.direct("alice", "bob")
	require.NotNil(t, chat, "first message creates the conversation")
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, message.ID, chat.Messages[0].ID)

	frames := gateway.frames["bob"]
	require.Len(t, frames, 1)
	assert.Equal(t, websocket.EventNewMessage, frameEvent(t, frames[0]))
}

func TestSendDirectToOfflineRecipientStillStores(t *testing.T) {
	alice := &entity.User{ID: "alice", Friends: []string{"bob"}}
	chatRepo := newFakeChatRepo()
	uc := NewChatUseCase(chatRepo, newFakeUserRepo(alice), newFakeStorage(), newFakeGateway())

	_, err := uc.SendDirect(context.Background(), alice, DirectMessageInput{Content: "hi", SendTo: "bob"})
	require.NoError(t, err)
	require.NotNil(t, chatRepo.direct("alice", "bob"))
}

func TestSendDirectRequiresFriendship(t *testing.T) {
	alice := &entity.User{ID: "alice"}
	uc := NewChatUseCase(newFakeChatRepo(), newFakeUserRepo(alice), newFakeStorage(), newFakeGateway("bob"))

	_, err := uc.SendDirect(context.Background(), alice, DirectMessageInput{Content: "hi", SendTo: "bob"})
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
}

func TestSendGroupFansOutToOnlineParticipants(t *testing.T) {
	alice := &entity.User{ID: "alice"}
	group := &entity.Chat{ID: "g1", Group: "team", Participants: []string{"alice", "bob", "carol"}, CreatedBy: "alice"}
	gateway := newFakeGateway("alice", "bob")
	uc := NewChatUseCase(newFakeChatRepo(group), newFakeUserRepo(alice), newFakeStorage(), gateway)

	_, err := uc.SendGroup(context.Background(), alice, GroupMessageInput{Content: "hi team", GroupID: "g1"})
	require.NoError(t, err)

	assert.Len(t, gateway.frames["bob"], 1)
	assert.Empty(t, gateway.frames["alice"], "sender is not echoed")
	assert.Empty(t, gateway.frames["carol"], "offline participants rely on history")
}

func TestSendGroupRejectsNonParticipant(t *testing.T) {
	mallory := &entity.User{ID: "mallory"}
	group := &entity.Chat{ID: "g1", Group: "team", Participants: []string{"alice", "bob"}, CreatedBy: "alice"}
	uc := NewChatUseCase(newFakeChatRepo(group), newFakeUserRepo(mallory), newFakeStorage(), newFakeGateway())

	_, err := uc.SendGroup(context.Background(), mallory, GroupMessageInput{Content: "hi", GroupID: "g1"})
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestCreateGroupRequiresFriends(t *testing.T) {
	alice := &entity.User{ID: "alice", Friends: []string{"bob"}}
	uc := NewChatUseCase(newFakeChatRepo(), newFakeUserRepo(alice), newFakeStorage(), newFakeGateway())

	_, err := uc.CreateGroup(context.Background(), alice, CreateGroupInput{Group: "team", Participants: []string{"bob", "stranger"}})
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))

	chat, err := uc.CreateGroup(context.Background(), alice, CreateGroupInput{Group: "team", Participants: []string{"bob", "bob"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, chat.Participants)
	assert.NotEmpty(t, chat.RoomID)
}

func TestGetDirectWindowReturnsEmptyBeyondHistory(t *testing.T) {
	alice := &entity.User{ID: "alice", Friends: []string{"bob"}}
	chat := &entity.Chat{
		Participants: []string{"alice", "bob"},
		Messages: []entity.Message{
			{ID: "m1"}, {ID: "m2"}, {ID: "m3"},
		},
	}
	uc := NewChatUseCase(newFakeChatRepo(chat), newFakeUserRepo(alice), newFakeStorage(), newFakeGateway())

	got, err := uc.GetDirect(context.Background(), alice, "bob", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3"}, messageIDs(got.Messages))

	got, err = uc.GetDirect(context.Background(), alice, "bob", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, messageIDs(got.Messages))

	got, err = uc.GetDirect(context.Background(), alice, "bob", 3, 2)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
}

func messageIDs(messages []entity.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}
