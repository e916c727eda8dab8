package repository

import (
	"context"

	"sociogram/internal/domain/entity"
)

type FriendRequestRepository interface {
	// Create inserts the edge; a second edge for the same unordered pair
	// fails with a Conflict error regardless of request interleaving.
	Create(ctx context.Context, request *entity.FriendRequest) error
	GetByPair(ctx context.Context, a, b string) (*entity.FriendRequest, error)
	// Accept stamps acceptedAt on a pending request addressed to userID and
	// returns the accepted request.
	Accept(ctx context.Context, requestID, userID string) (*entity.FriendRequest, error)
}
