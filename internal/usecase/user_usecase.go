package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/pkg/errors"
	"sociogram/pkg/logger"
)

const uploadLinkTTL = 15 * time.Minute

type UserUseCase struct {
	userRepo   repository.UserRepository
	friendRepo repository.FriendRequestRepository
	chatRepo   repository.ChatRepository
	storage    FileStorage
}

func NewUserUseCase(userRepo repository.UserRepository, friendRepo repository.FriendRequestRepository, chatRepo repository.ChatRepository, storage FileStorage) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		chatRepo:   chatRepo,
		storage:    storage,
	}
}

type ProfileResult struct {
	User    *entity.User   `json:"user"`
	Friends []*entity.User `json:"friends"`
	Groups  []*entity.Chat `json:"groups"`
}

// Profile returns the caller's account together with resolved friends and
// the group chats they participate in.
func (uc *UserUseCase) Profile(ctx context.Context, user *entity.User) (*ProfileResult, error) {
	friends, err := uc.userRepo.GetMany(ctx, user.Friends)
	if err != nil {
		return nil, errors.Internal("Failed to load friends", err)
	}
	groups, err := uc.chatRepo.ListGroupsByParticipant(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to load groups", err)
	}
	return &ProfileResult{User: user, Friends: friends, Groups: groups}, nil
}

// GetShared returns another user's public profile.
func (uc *UserUseCase) GetShared(ctx context.Context, profileID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, errors.Internal("Failed to load profile", err)
	}
	if user == nil || user.FreezedAt != nil {
		return nil, errors.NotFound("Profile", nil)
	}
	return user, nil
}

type UpdateBasicInfoInput struct {
	Username string
	Phone    string
	Bio      string
}

func (uc *UserUseCase) UpdateBasicInfo(ctx context.Context, userID string, input UpdateBasicInfoInput) error {
	set := repository.UserUpdate{}
	if input.Username != "" {
		set["username"] = input.Username
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Bio != "" {
		set["bio"] = input.Bio
	}
	if len(set) == 0 {
		return errors.BadRequest("Nothing to update", nil)
	}
	return uc.userRepo.UpdateByID(ctx, userID, set, nil)
}

// UpdatePassword verifies the old password, stores the new one and bumps
// the credentials change time so existing sessions are cut off.
func (uc *UserUseCase) UpdatePassword(ctx context.Context, user *entity.User, oldPassword, newPassword string) error {
	if user.Provider != entity.ProviderSystem {
		return errors.BadRequest("This account does not use password login", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.Unauthorized("Invalid old password", nil)
	}
	passwordHash, err := hashSecret(newPassword)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdateByID(ctx, user.ID, repository.UserUpdate{
		"password":              passwordHash,
		"changeCredentialsTime": time.Now(),
	}, nil)
}

// ProfileImageUploadURL hands the client a presigned PUT link and parks
// the key as pending until the upload is confirmed.
func (uc *UserUseCase) ProfileImageUploadURL(ctx context.Context, user *entity.User, filename string) (string, error) {
	key := fmt.Sprintf("users/%s/profile/%s%s", user.ID, uuid.NewString(), path.Ext(filename))
	url, err := uc.storage.PresignedUpload(ctx, key, uploadLinkTTL)
	if err != nil {
		return "", err
	}
	if err := uc.userRepo.UpdateByID(ctx, user.ID,
		repository.UserUpdate{"tempImageKey": key}, nil); err != nil {
		return "", errors.Internal("Failed to store pending image", err)
	}
	return url, nil
}

// ConfirmProfileImage promotes the pending key to the live profile image
// and removes the replaced object.
func (uc *UserUseCase) ConfirmProfileImage(ctx context.Context, user *entity.User) error {
	if user.TempImageKey == "" {
		return errors.BadRequest("No pending profile image", nil)
	}
	if err := uc.userRepo.UpdateByID(ctx, user.ID,
		repository.UserUpdate{"profileImageKey": user.TempImageKey},
		[]string{"tempImageKey"}); err != nil {
		return errors.Internal("Failed to confirm profile image", err)
	}
	if user.ProfileImageKey != "" {
		if err := uc.storage.Delete(ctx, user.ProfileImageKey); err != nil {
			logger.Warn("failed to delete replaced profile image %s: %v", user.ProfileImageKey, err)
		}
	}
	return nil
}

type CoverUpload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

func (uc *UserUseCase) UploadCoverImages(ctx context.Context, user *entity.User, files []CoverUpload) ([]string, error) {
	keys := append([]string{}, user.CoverImageKeys...)
	for _, file := range files {
		key := fmt.Sprintf("users/%s/cover/%s%s", user.ID, uuid.NewString(), path.Ext(file.Filename))
		if _, err := uc.storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := uc.userRepo.UpdateByID(ctx, user.ID,
		repository.UserUpdate{"coverImageKeys": keys}, nil); err != nil {
		return nil, errors.Internal("Failed to store cover images", err)
	}
	return keys, nil
}

// SendFriendRequest creates the pending edge. Duplicate sends for the same
// pair, in either direction and under any interleaving, come back as a
// conflict.
func (uc *UserUseCase) SendFriendRequest(ctx context.Context, sender *entity.User, targetID string) (*entity.FriendRequest, error) {
	if targetID == sender.ID {
		return nil, errors.BadRequest("Cannot send a friend request to yourself", nil)
	}
	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, errors.Internal("Failed to load user", err)
	}
	if target == nil || target.FreezedAt != nil {
		return nil, errors.NotFound("User", nil)
	}
	if sender.IsFriend(targetID) {
		return nil, errors.Conflict("Already friends")
	}

	request := &entity.FriendRequest{
		CreatedBy: sender.ID,
		SendTo:    targetID,
		CreatedAt: time.Now(),
	}
	if err := uc.friendRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// AcceptFriendRequest accepts a request addressed to the caller and links
// both users.
func (uc *UserUseCase) AcceptFriendRequest(ctx context.Context, user *entity.User, requestID string) error {
	request, err := uc.friendRepo.Accept(ctx, requestID, user.ID)
	if err != nil {
		return errors.Internal("Failed to accept friend request", err)
	}
	if request == nil {
		return errors.NotFound("Friend request", nil)
	}

	if err := uc.userRepo.AddFriend(ctx, request.CreatedBy, request.SendTo); err != nil {
		return errors.Internal("Failed to link friends", err)
	}
	if err := uc.userRepo.AddFriend(ctx, request.SendTo, request.CreatedBy); err != nil {
		return errors.Internal("Failed to link friends", err)
	}
	return nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, page repository.Page) (*repository.Paginated[*entity.User], error) {
	result, err := uc.userRepo.List(ctx, page)
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}
	return result, nil
}

// canAdministrate enforces the role ladder: admins manage plain users,
// super-admins manage everyone below them.
func canAdministrate(actor *entity.User, target *entity.User) bool {
	if actor.ID == target.ID {
		return false
	}
	switch actor.Role {
	case entity.RoleSuperAdmin:
		return target.Role != entity.RoleSuperAdmin
	case entity.RoleAdmin:
		return target.Role == entity.RoleUser
	default:
		return false
	}
}

func (uc *UserUseCase) loadTarget(ctx context.Context, actor *entity.User, targetID string) (*entity.User, error) {
	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, errors.Internal("Failed to load user", err)
	}
	if target == nil {
		return nil, errors.NotFound("User", nil)
	}
	if !canAdministrate(actor, target) {
		return nil, errors.Forbidden("Not allowed to manage this account", nil)
	}
	return target, nil
}

// FreezeAccount soft-deletes the account and invalidates its sessions.
func (uc *UserUseCase) FreezeAccount(ctx context.Context, actor *entity.User, targetID string) error {
	target, err := uc.loadTarget(ctx, actor, targetID)
	if err != nil {
		return err
	}
	if target.FreezedAt != nil {
		return errors.Conflict("Account is already frozen")
	}
	return uc.userRepo.Freeze(ctx, targetID, actor.ID)
}

func (uc *UserUseCase) RestoreAccount(ctx context.Context, actor *entity.User, targetID string) error {
	target, err := uc.loadTarget(ctx, actor, targetID)
	if err != nil {
		return err
	}
	if target.FreezedAt == nil {
		return errors.Conflict("Account is not frozen")
	}
	return uc.userRepo.Restore(ctx, targetID, actor.ID)
}

func (uc *UserUseCase) BlockAccount(ctx context.Context, actor *entity.User, targetID string) error {
	if _, err := uc.loadTarget(ctx, actor, targetID); err != nil {
		return err
	}
	return uc.userRepo.Block(ctx, targetID, actor.ID)
}

// ChangeRole promotes or demotes an account. Only super-admins may grant
// or revoke the admin role.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor *entity.User, targetID string, role entity.Role) error {
	if actor.Role != entity.RoleSuperAdmin {
		return errors.Forbidden("Only super admins can change roles", nil)
	}
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return errors.BadRequest("Unknown role", nil)
	}
	if targetID == actor.ID {
		return errors.BadRequest("Cannot change your own role", nil)
	}
	if err := uc.userRepo.ChangeRole(ctx, targetID, role, []entity.Role{entity.RoleSuperAdmin}); err != nil {
		return errors.NotFound("User", err)
	}
	return nil
}

// DeleteAccount permanently removes a frozen account and its stored
// assets.
func (uc *UserUseCase) DeleteAccount(ctx context.Context, actor *entity.User, targetID string) error {
	if actor.Role != entity.RoleSuperAdmin {
		return errors.Forbidden("Only super admins can delete accounts", nil)
	}
	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return errors.Internal("Failed to load user", err)
	}
	if target == nil {
		return errors.NotFound("User", nil)
	}
	if target.FreezedAt == nil {
		return errors.BadRequest("Account must be frozen before deletion", nil)
	}

	if err := uc.userRepo.HardDelete(ctx, targetID); err != nil {
		return errors.Internal("Failed to delete account", err)
	}
	if err := uc.storage.DeletePrefix(ctx, fmt.Sprintf("users/%s", targetID)); err != nil {
		logger.Warn("failed to delete assets of %s: %v", targetID, err)
	}
	return nil
}
