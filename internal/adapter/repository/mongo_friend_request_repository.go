package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
	"sociogram/pkg/errors"
)

type mongoFriendRequestRepository struct {
	coll *mongo.Collection
}

// NewMongoFriendRequestRepository also installs the unique pair-key index;
// with it in place two concurrent requests between the same pair cannot
// both insert, the loser surfaces as a Conflict.
func NewMongoFriendRequestRepository(ctx context.Context, db *mongo.Database) (repository.FriendRequestRepository, error) {
	coll := db.Collection(friendRequestsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pairKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &mongoFriendRequestRepository{coll: coll}, nil
}

func (r *mongoFriendRequestRepository) Create(ctx context.Context, request *entity.FriendRequest) error {
	if request.ID == "" {
		request.ID = newID()
	}
	request.PairKey = entity.FriendPairKey(request.CreatedBy, request.SendTo)
	request.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, request)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Conflict("Friend request already exists")
	}
	return err
}

func (r *mongoFriendRequestRepository) GetByPair(ctx context.Context, a, b string) (*entity.FriendRequest, error) {
	return findOne[entity.FriendRequest](ctx, r.coll, bson.M{
		"pairKey": entity.FriendPairKey(a, b),
	})
}

func (r *mongoFriendRequestRepository) Accept(ctx context.Context, requestID, userID string) (*entity.FriendRequest, error) {
	return findOneAndUpdate[entity.FriendRequest](ctx, r.coll, bson.M{
		"_id":        requestID,
		"sendTo":     userID,
		"acceptedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"acceptedAt": time.Now()},
	})
}
