package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

// Viewer scopes the availability filter of post listings.
type Viewer struct {
	UserID  string
	Friends []string
}

type PostUpdateInput struct {
	Content            string
	Availability       entity.Availability
	AllowComments      entity.AllowComments
	AddedAttachments   []string
	RemovedAttachments []string
	AddedTags          []string
	RemovedTags        []string
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetOwned(ctx context.Context, id, ownerID string) (*entity.Post, error)
	GetVisible(ctx context.Context, id string, viewer Viewer) (*entity.Post, error)
	GetCommentable(ctx context.Context, id string, viewer Viewer) (*entity.Post, error)
	Update(ctx context.Context, id string, input PostUpdateInput) error
	Like(ctx context.Context, id, userID string, viewer Viewer) (*entity.Post, error)
	Unlike(ctx context.Context, id, userID string, viewer Viewer) (*entity.Post, error)
	UpdateTags(ctx context.Context, id string, tags []string) (*entity.Post, error)
	Freeze(ctx context.Context, id, byUserID string) error
	Delete(ctx context.Context, id string) error
	ListVisible(ctx context.Context, viewer Viewer, page Page) (*Paginated[*entity.Post], error)
	ListAll(ctx context.Context, page Page) (*Paginated[*entity.Post], error)
}
