package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
)

type mongoTokenRepository struct {
	coll *mongo.Collection
}

// NewMongoTokenRepository installs a TTL index so revoked entries expire
// with the tokens they shadow.
func NewMongoTokenRepository(ctx context.Context, db *mongo.Database) (repository.TokenRepository, error) {
	coll := db.Collection(tokensCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, err
	}
	return &mongoTokenRepository{coll: coll}, nil
}

func (r *mongoTokenRepository) Revoke(ctx context.Context, token *entity.RevokedToken) error {
	if token.ID == "" {
		token.ID = newID()
	}
	token.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, token)
	return err
}

func (r *mongoTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"jti": jti})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
