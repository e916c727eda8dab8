package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	GetOnPost(ctx context.Context, id, postID string) (*entity.Comment, error)
	Update(ctx context.Context, id, ownerID, content string) error
	Freeze(ctx context.Context, id, byUserID string) error
	Delete(ctx context.Context, id string) error
	// ListTopLevelByPosts returns non-frozen comments that sit directly on
	// one of the given posts (no parent comment).
	ListTopLevelByPosts(ctx context.Context, postIDs []string) ([]*entity.Comment, error)
	// ListRepliesByParents returns non-frozen replies whose parent is one of
	// the given comments.
	ListRepliesByParents(ctx context.Context, parentIDs []string) ([]*entity.Comment, error)
}
