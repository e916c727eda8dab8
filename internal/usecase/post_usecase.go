package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/pkg/errors"
	"sociogram/pkg/logger"
)

type PostUseCase struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	storage     FileStorage
	notifier    Notifier
}

func NewPostUseCase(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, storage FileStorage, notifier Notifier) *PostUseCase {
	return &PostUseCase{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		storage:     storage,
		notifier:    notifier,
	}
}

func viewerFor(user *entity.User) repository.Viewer {
	return repository.Viewer{UserID: user.ID, Friends: user.Friends}
}

type AttachmentUpload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

type CreatePostInput struct {
	Content       string
	Availability  entity.Availability
	AllowComments entity.AllowComments
	Tags          []string
	Attachments   []AttachmentUpload
}

// checkTags verifies every tagged user exists and is not the author.
func (uc *PostUseCase) checkTags(ctx context.Context, tags []string, authorID string) error {
	if len(tags) == 0 {
		return nil
	}
	count, err := uc.userRepo.CountExisting(ctx, tags, authorID)
	if err != nil {
		return errors.Internal("Failed to check tagged users", err)
	}
	if count != int64(len(tags)) {
		return errors.NotFound("Some tagged users", nil)
	}
	return nil
}

func (uc *PostUseCase) notifyTagged(ctx context.Context, tags []string, author *entity.User) {
	if len(tags) == 0 {
		return
	}
	tagged, err := uc.userRepo.GetMany(ctx, tags)
	if err != nil {
		logger.Warn("failed to load tagged users: %v", err)
		return
	}
	for _, user := range tagged {
		uc.notifier.Tagged(user.Email, author.Username)
	}
}

func (uc *PostUseCase) Create(ctx context.Context, author *entity.User, input CreatePostInput) (*entity.Post, error) {
	if input.Content == "" && len(input.Attachments) == 0 {
		return nil, errors.BadRequest("A post needs content or attachments", nil)
	}
	if err := uc.checkTags(ctx, input.Tags, author.ID); err != nil {
		return nil, err
	}

	assetsFolder := uuid.NewString()
	var attachmentKeys []string
	for _, file := range input.Attachments {
		key := fmt.Sprintf("users/%s/posts/%s/%s%s", author.ID, assetsFolder, uuid.NewString(), path.Ext(file.Filename))
		if _, err := uc.storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
			return nil, err
		}
		attachmentKeys = append(attachmentKeys, key)
	}

	availability := input.Availability
	if availability == "" {
		availability = entity.AvailabilityPublic
	}
	allowComments := input.AllowComments
	if allowComments == "" {
		allowComments = entity.AllowCommentsAllow
	}

	now := time.Now()
	post := &entity.Post{
		Content:       input.Content,
		Attachments:   attachmentKeys,
		AssetsFolder:  assetsFolder,
		Availability:  availability,
		AllowComments: allowComments,
		Tags:          input.Tags,
		CreatedBy:     author.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		// orphaned uploads would never be reachable, reclaim them
		if len(attachmentKeys) > 0 {
			if cleanupErr := uc.storage.DeletePrefix(ctx, fmt.Sprintf("users/%s/posts/%s", author.ID, assetsFolder)); cleanupErr != nil {
				logger.Error("failed to clean up attachments for failed post: %v", cleanupErr)
			}
		}
		return nil, errors.Internal("Failed to create post", err)
	}

	uc.notifyTagged(ctx, input.Tags, author)
	return post, nil
}

type UpdatePostInput struct {
	Content            string
	Availability       entity.Availability
	AllowComments      entity.AllowComments
	AddedTags          []string
	RemovedTags        []string
	RemovedAttachments []string
	AddedAttachments   []AttachmentUpload
}

func (uc *PostUseCase) Update(ctx context.Context, author *entity.User, postID string, input UpdatePostInput) (*entity.Post, error) {
	post, err := uc.postRepo.GetOwned(ctx, postID, author.ID)
	if err != nil {
		return nil, errors.Internal("Failed to load post", err)
	}
	if post == nil {
		return nil, errors.NotFound("Post", nil)
	}
	if err := uc.checkTags(ctx, input.AddedTags, author.ID); err != nil {
		return nil, err
	}

	var addedKeys []string
	for _, file := range input.AddedAttachments {
		key := fmt.Sprintf("users/%s/posts/%s/%s%s", author.ID, post.AssetsFolder, uuid.NewString(), path.Ext(file.Filename))
		if _, err := uc.storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
			return nil, err
		}
		addedKeys = append(addedKeys, key)
	}

	if err := uc.postRepo.Update(ctx, postID, repository.PostUpdateInput{
		Content:            input.Content,
		Availability:       input.Availability,
		AllowComments:      input.AllowComments,
		AddedAttachments:   addedKeys,
		RemovedAttachments: input.RemovedAttachments,
		AddedTags:          input.AddedTags,
		RemovedTags:        input.RemovedTags,
	}); err != nil {
		return nil, errors.Internal("Failed to update post", err)
	}

	for _, key := range input.RemovedAttachments {
		if err := uc.storage.Delete(ctx, key); err != nil {
			logger.Warn("failed to delete attachment %s: %v", key, err)
		}
	}
	uc.notifyTagged(ctx, input.AddedTags, author)

	return uc.postRepo.GetByID(ctx, postID)
}

// Like is idempotent: liking a post twice leaves a single like.
func (uc *PostUseCase) Like(ctx context.Context, user *entity.User, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.Like(ctx, postID, user.ID, viewerFor(user))
	if err != nil {
		return nil, errors.Internal("Failed to like post", err)
	}
	if post == nil {
		return nil, errors.NotFound("Post", nil)
	}
	return post, nil
}

func (uc *PostUseCase) Unlike(ctx context.Context, user *entity.User, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.Unlike(ctx, postID, user.ID, viewerFor(user))
	if err != nil {
		return nil, errors.Internal("Failed to unlike post", err)
	}
	if post == nil {
		return nil, errors.NotFound("Post", nil)
	}
	return post, nil
}

// Get returns a single visible post with its comment tree attached.
func (uc *PostUseCase) Get(ctx context.Context, user *entity.User, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetVisible(ctx, postID, viewerFor(user))
	if err != nil {
		return nil, errors.Internal("Failed to load post", err)
	}
	if post == nil {
		return nil, errors.NotFound("Post", nil)
	}
	if err := uc.attachComments(ctx, []*entity.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// Feed lists the posts visible to the viewer, newest first, each carrying
// its comment tree.
func (uc *PostUseCase) Feed(ctx context.Context, user *entity.User, page repository.Page) (*repository.Paginated[*entity.Post], error) {
	listing, err := uc.postRepo.ListVisible(ctx, viewerFor(user), page)
	if err != nil {
		return nil, errors.Internal("Failed to list posts", err)
	}
	if err := uc.attachComments(ctx, listing.Result); err != nil {
		return nil, err
	}
	return listing, nil
}

// attachComments builds the reply tree for a page of posts in three batch
// queries, one per level. Replies below the third level are left out; they
// exist in storage but the feed never descends past level three.
func (uc *PostUseCase) attachComments(ctx context.Context, posts []*entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]string, len(posts))
	byPost := make(map[string]*entity.Post, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
		byPost[post.ID] = post
	}

	level1, err := uc.commentRepo.ListTopLevelByPosts(ctx, postIDs)
	if err != nil {
		return errors.Internal("Failed to load comments", err)
	}
	byParent := make(map[string]*entity.Comment)
	var level1IDs []string
	for _, comment := range level1 {
		if post, ok := byPost[comment.PostID]; ok {
			post.Comments = append(post.Comments, comment)
		}
		byParent[comment.ID] = comment
		level1IDs = append(level1IDs, comment.ID)
	}

	level2IDs, err := uc.attachReplies(ctx, byParent, level1IDs)
	if err != nil {
		return err
	}
	if _, err := uc.attachReplies(ctx, byParent, level2IDs); err != nil {
		return err
	}
	return nil
}

func (uc *PostUseCase) attachReplies(ctx context.Context, byParent map[string]*entity.Comment, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	replies, err := uc.commentRepo.ListRepliesByParents(ctx, parentIDs)
	if err != nil {
		return nil, errors.Internal("Failed to load replies", err)
	}
	var ids []string
	for _, reply := range replies {
		if parent, ok := byParent[reply.ParentID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
		byParent[reply.ID] = reply
		ids = append(ids, reply.ID)
	}
	return ids, nil
}

// FreezePost hides a post. Owners freeze their own posts; admins can
// freeze anyone's.
func (uc *PostUseCase) FreezePost(ctx context.Context, actor *entity.User, postID string) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return errors.Internal("Failed to load post", err)
	}
	if post == nil || post.FreezedAt != nil {
		return errors.NotFound("Post", nil)
	}
	if post.CreatedBy != actor.ID && actor.Role == entity.RoleUser {
		return errors.Forbidden("Not allowed to freeze this post", nil)
	}
	return uc.postRepo.Freeze(ctx, postID, actor.ID)
}

// Delete permanently removes a frozen post and its stored attachments.
func (uc *PostUseCase) Delete(ctx context.Context, actor *entity.User, postID string) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return errors.Internal("Failed to load post", err)
	}
	if post == nil {
		return errors.NotFound("Post", nil)
	}
	if post.CreatedBy != actor.ID && actor.Role == entity.RoleUser {
		return errors.Forbidden("Not allowed to delete this post", nil)
	}
	if post.FreezedAt == nil {
		return errors.BadRequest("Post must be frozen before deletion", nil)
	}

	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		return errors.Internal("Failed to delete post", err)
	}
	if post.AssetsFolder != "" {
		prefix := fmt.Sprintf("users/%s/posts/%s", post.CreatedBy, post.AssetsFolder)
		if err := uc.storage.DeletePrefix(ctx, prefix); err != nil {
			logger.Warn("failed to delete post assets %s: %v", prefix, err)
		}
	}
	return nil
}

// ListAll is the admin view: every post regardless of availability or
// freeze state.
func (uc *PostUseCase) ListAll(ctx context.Context, page repository.Page) (*repository.Paginated[*entity.Post], error) {
	listing, err := uc.postRepo.ListAll(ctx, page)
	if err != nil {
		return nil, errors.Internal("Failed to list posts", err)
	}
	return listing, nil
}
