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

type mongoCommentRepository struct {
	coll *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{coll: db.Collection(commentsCollection)}
}

func (r *mongoCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

func (r *mongoCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return findOne[entity.Comment](ctx, r.coll, bson.M{"_id": id})
}

func (r *mongoCommentRepository) GetOnPost(ctx context.Context, id, postID string) (*entity.Comment, error) {
	return findOne[entity.Comment](ctx, r.coll, bson.M{"_id": id, "postId": postID})
}

func (r *mongoCommentRepository) Update(ctx context.Context, id, ownerID, content string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "createdBy": ownerID, "freezedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCommentRepository) Freeze(ctx context.Context, id, byUserID string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "freezedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"freezedAt": time.Now(), "freezedBy": byUserID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCommentRepository) ListTopLevelByPosts(ctx context.Context, postIDs []string) ([]*entity.Comment, error) {
	if len(postIDs) == 0 {
		return []*entity.Comment{}, nil
	}
	filter := bson.M{
		"postId":    bson.M{"$in": postIDs},
		"commentId": bson.M{"$exists": false},
		"freezedAt": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[entity.Comment](ctx, r.coll, filter, opts)
}

func (r *mongoCommentRepository) ListRepliesByParents(ctx context.Context, parentIDs []string) ([]*entity.Comment, error) {
	if len(parentIDs) == 0 {
		return []*entity.Comment{}, nil
	}
	filter := bson.M{
		"commentId": bson.M{"$in": parentIDs},
		"freezedAt": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[entity.Comment](ctx, r.coll, filter, opts)
}
