package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

type UserUpdate map[string]interface{}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndProvider(ctx context.Context, email string, provider entity.Provider) (*entity.User, error)
	GetPendingConfirmation(ctx context.Context, email string) (*entity.User, error)
	GetPendingReset(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, set UserUpdate, unset []string) error
	UpdateByEmail(ctx context.Context, email string, set UserUpdate, unset []string) error
	AddFriend(ctx context.Context, userID, friendID string) error
	CountExisting(ctx context.Context, ids []string, exclude string) (int64, error)
	Freeze(ctx context.Context, userID, byUserID string) error
	Restore(ctx context.Context, userID, byUserID string) error
	Block(ctx context.Context, userID, byUserID string) error
	ChangeRole(ctx context.Context, userID string, role entity.Role, denied []entity.Role) error
	HardDelete(ctx context.Context, userID string) error
	List(ctx context.Context, page Page) (*Paginated[*entity.User], error)
	GetMany(ctx context.Context, ids []string) ([]*entity.User, error)
}
