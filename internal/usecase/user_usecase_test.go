package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociogram/internal/domain/entity"
	apperrors "sociogram/pkg/errors"
)

func newUserFixture(users ...*entity.User) (*UserUseCase, *fakeUserRepo, *fakeFriendRequestRepo) {
	userRepo := newFakeUserRepo(users...)
	friendRepo := newFakeFriendRequestRepo()
	uc := NewUserUseCase(userRepo, friendRepo, newFakeChatRepo(), newFakeStorage())
	return uc, userRepo, friendRepo
}

func TestSendFriendRequestDuplicatePairIsConflict(t *testing.T) {
	alice := &entity.User{ID: "alice", Username: "alice"}
	bob := &entity.User{ID: "bob", Username: "bob"}
	uc, _, _ := newUserFixture(alice, bob)

	request, err := uc.SendFriendRequest(context.Background(), alice, "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", request.CreatedBy)
	assert.Equal(t, "bob", request.SendTo)

	_, err = uc.SendFriendRequest(context.Background(), alice, "bob")
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	// the pair is unordered, the reverse direction collides too
	_, err = uc.SendFriendRequest(context.Background(), bob, "alice")
	assert.True(t, apperrors.Is(err, "CONFLICT"))
}

func TestSendFriendRequestRejections(t *testing.T) {
	alice := &entity.User{ID: "alice", Username: "alice"}
	bob := &entity.User{ID: "bob", Username: "bob"}
	now := time.Now()
	frozen := &entity.User{ID: "carol", Username: "carol", FreezedAt: &now}
	uc, _, _ := newUserFixture(alice, bob, frozen)

	_, err := uc.SendFriendRequest(context.Background(), alice, "alice")
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendFriendRequest(context.Background(), alice, "ghost")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	_, err = uc.SendFriendRequest(context.Background(), alice, "carol")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"), "frozen accounts are unreachable")

	alice.Friends = []string{"bob"}
	_, err = uc.SendFriendRequest(context.Background(), alice, "bob")
	assert.True(t, apperrors.Is(err, "CONFLICT"))
}

func TestAcceptFriendRequestLinksBothUsers(t *testing.T) {
	alice := &entity.User{ID: "alice", Username: "alice"}
	bob := &entity.User{ID: "bob", Username: "bob"}
	uc, userRepo, _ := newUserFixture(alice, bob)

	request, err := uc.SendFriendRequest(context.Background(), alice, "bob")
	require.NoError(t, err)

	// only the addressee can accept
	err = uc.AcceptFriendRequest(context.Background(), alice, request.ID)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	require.NoError(t, uc.AcceptFriendRequest(context.Background(), bob, request.ID))

	updatedAlice, _ := userRepo.GetByID(context.Background(), "alice")
	updatedBob, _ := userRepo.GetByID(context.Background(), "bob")
	assert.True(t, updatedAlice.IsFriend("bob"))
	assert.True(t, updatedBob.IsFriend("alice"))

	// an accepted request cannot be accepted again
	err = uc.AcceptFriendRequest(context.Background(), bob, request.ID)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}
