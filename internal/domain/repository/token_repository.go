package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

type TokenRepository interface {
	Revoke(ctx context.Context, token *entity.RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
