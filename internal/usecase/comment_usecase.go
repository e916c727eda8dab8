package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	apperrors "sociogram/pkg/errors"
)

// Replies nest at most this deep: a comment, a reply, a reply to the
// reply. Deeper threads are rejected on write so the feed projection
// never has to truncate.
const maxCommentDepth = 3

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	storage     FileStorage
	notifier    Notifier
}

func NewCommentUseCase(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, storage FileStorage, notifier Notifier) *CommentUseCase {
	return &CommentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		storage:     storage,
		notifier:    notifier,
	}
}

type CreateCommentInput struct {
	Content     string
	Tags        []string
	Attachments []AttachmentUpload
}

// Create adds a comment on a post, or a reply when parentID is set. The
// post must be visible to the author and accept comments.
func (uc *CommentUseCase) Create(ctx context.Context, author *entity.User, postID, parentID string, input CreateCommentInput) (*entity.Comment, error) {
	if input.Content == "" && len(input.Attachments) == 0 {
		return nil, apperrors.BadRequest("A comment needs content or attachments", nil)
	}

	post, err := uc.postRepo.GetCommentable(ctx, postID, viewerFor(author))
	if err != nil {
		return nil, apperrors.Internal("Failed to load post", err)
	}
	if post == nil {
		return nil, apperrors.NotFound("Post", nil)
	}

	if parentID != "" {
		if err := uc.checkDepth(ctx, postID, parentID); err != nil {
			return nil, err
		}
	}

	if len(input.Tags) > 0 {
		count, err := uc.userRepo.CountExisting(ctx, input.Tags, author.ID)
		if err != nil {
			return nil, apperrors.Internal("Failed to check tagged users", err)
		}
		if count != int64(len(input.Tags)) {
			return nil, apperrors.NotFound("Some tagged users", nil)
		}
	}

	var attachmentKeys []string
	for _, file := range input.Attachments {
		key := fmt.Sprintf("users/%s/posts/%s/comments/%s%s", post.CreatedBy, post.AssetsFolder, uuid.NewString(), path.Ext(file.Filename))
		if _, err := uc.storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
			return nil, err
		}
		attachmentKeys = append(attachmentKeys, key)
	}

	now := time.Now()
	comment := &entity.Comment{
		PostID:      postID,
		ParentID:    parentID,
		Content:     input.Content,
		Attachments: attachmentKeys,
		Tags:        input.Tags,
		CreatedBy:   author.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperrors.Internal("Failed to create comment", err)
	}

	if len(input.Tags) > 0 {
		tagged, err := uc.userRepo.GetMany(ctx, input.Tags)
		if err == nil {
			for _, user := range tagged {
				uc.notifier.Tagged(user.Email, author.Username)
			}
		}
	}
	return comment, nil
}

// checkDepth rejects replies that would start a fourth level.
func (uc *CommentUseCase) checkDepth(ctx context.Context, postID, parentID string) error {
	parent, err := uc.commentRepo.GetOnPost(ctx, parentID, postID)
	if err != nil {
		return apperrors.Internal("Failed to load parent comment", err)
	}
	if parent == nil {
		return apperrors.NotFound("Comment", nil)
	}
	depth := 2
	for parent.ParentID != "" {
		depth++
		if depth > maxCommentDepth {
			return apperrors.BadRequest("Maximum reply depth reached", nil)
		}
		parent, err = uc.commentRepo.GetByID(ctx, parent.ParentID)
		if err != nil {
			return apperrors.Internal("Failed to load parent comment", err)
		}
		if parent == nil {
			return apperrors.NotFound("Comment", nil)
		}
	}
	return nil
}

func (uc *CommentUseCase) Update(ctx context.Context, author *entity.User, commentID, content string) error {
	if content == "" {
		return apperrors.BadRequest("Content is required", nil)
	}
	err := uc.commentRepo.Update(ctx, commentID, author.ID, content)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFound("Comment", nil)
	}
	if err != nil {
		return apperrors.Internal("Failed to update comment", err)
	}
	return nil
}

// Freeze hides a comment. The comment's author, the post's owner and
// admins may do it.
func (uc *CommentUseCase) Freeze(ctx context.Context, actor *entity.User, commentID string) error {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return apperrors.Internal("Failed to load comment", err)
	}
	if comment == nil || comment.FreezedAt != nil {
		return apperrors.NotFound("Comment", nil)
	}

	allowed := comment.CreatedBy == actor.ID || actor.Role != entity.RoleUser
	if !allowed {
		post, err := uc.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return apperrors.Internal("Failed to load post", err)
		}
		allowed = post != nil && post.CreatedBy == actor.ID
	}
	if !allowed {
		return apperrors.Forbidden("Not allowed to freeze this comment", nil)
	}
	return uc.commentRepo.Freeze(ctx, commentID, actor.ID)
}

func (uc *CommentUseCase) Delete(ctx context.Context, actor *entity.User, commentID string) error {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return apperrors.Internal("Failed to load comment", err)
	}
	if comment == nil {
		return apperrors.NotFound("Comment", nil)
	}
	if comment.CreatedBy != actor.ID && actor.Role == entity.RoleUser {
		return apperrors.Forbidden("Not allowed to delete this comment", nil)
	}
	if comment.FreezedAt == nil {
		return apperrors.BadRequest("Comment must be frozen before deletion", nil)
	}
	return uc.commentRepo.Delete(ctx, commentID)
}
