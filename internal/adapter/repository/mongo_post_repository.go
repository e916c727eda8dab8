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

type mongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) repository.PostRepository {
	return &mongoPostRepository{coll: db.Collection(postsCollection)}
}

// availabilityFilter scopes a query to the posts the viewer may see:
// public posts, their own only-me posts, friends-visibility posts by
// their friends (or themselves), and posts they are tagged in as long as
// those are not only-me.
func availabilityFilter(viewer repository.Viewer) bson.M {
	friendsAndSelf := append(append([]string{}, viewer.Friends...), viewer.UserID)
	return bson.M{"$or": bson.A{
		bson.M{"availability": entity.AvailabilityPublic},
		bson.M{"availability": entity.AvailabilityOnlyMe, "createdBy": viewer.UserID},
		bson.M{"availability": entity.AvailabilityFriends, "createdBy": bson.M{"$in": friendsAndSelf}},
		bson.M{"availability": bson.M{"$ne": entity.AvailabilityOnlyMe}, "tags": viewer.UserID},
	}}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, post)
	return err
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return findOne[entity.Post](ctx, r.coll, bson.M{"_id": id})
}

func (r *mongoPostRepository) GetOwned(ctx context.Context, id, ownerID string) (*entity.Post, error) {
	return findOne[entity.Post](ctx, r.coll, bson.M{"_id": id, "createdBy": ownerID})
}

func (r *mongoPostRepository) GetVisible(ctx context.Context, id string, viewer repository.Viewer) (*entity.Post, error) {
	filter := availabilityFilter(viewer)
	filter["_id"] = id
	return findOne[entity.Post](ctx, r.coll, filter)
}

func (r *mongoPostRepository) GetCommentable(ctx context.Context, id string, viewer repository.Viewer) (*entity.Post, error) {
	filter := availabilityFilter(viewer)
	filter["_id"] = id
	filter["allowComments"] = entity.AllowCommentsAllow
	return findOne[entity.Post](ctx, r.coll, filter)
}

func (r *mongoPostRepository) Update(ctx context.Context, id string, input repository.PostUpdateInput) error {
	// Aggregation-pipeline update so attachment and tag set arithmetic
	// happens server side in one round trip.
	set := bson.M{"updatedAt": "$$NOW"}
	if input.Content != "" {
		set["content"] = input.Content
	}
	if input.Availability != "" {
		set["availability"] = input.Availability
	}
	if input.AllowComments != "" {
		set["allowComments"] = input.AllowComments
	}
	set["attachments"] = bson.M{"$setUnion": bson.A{
		bson.M{"$setDifference": bson.A{
			bson.M{"$ifNull": bson.A{"$attachments", bson.A{}}},
			toBsonArray(input.RemovedAttachments),
		}},
		toBsonArray(input.AddedAttachments),
	}}
	set["tags"] = bson.M{"$setUnion": bson.A{
		bson.M{"$setDifference": bson.A{
			bson.M{"$ifNull": bson.A{"$tags", bson.A{}}},
			toBsonArray(input.RemovedTags),
		}},
		toBsonArray(input.AddedTags),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, mongo.Pipeline{
		bson.D{{Key: "$set", Value: set}},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func toBsonArray(values []string) bson.A {
	arr := bson.A{}
	for _, v := range values {
		arr = append(arr, v)
	}
	return arr
}

func (r *mongoPostRepository) Like(ctx context.Context, id, userID string, viewer repository.Viewer) (*entity.Post, error) {
	filter := availabilityFilter(viewer)
	filter["_id"] = id
	return findOneAndUpdate[entity.Post](ctx, r.coll, filter, bson.M{
		"$addToSet": bson.M{"likes": userID},
	})
}

func (r *mongoPostRepository) Unlike(ctx context.Context, id, userID string, viewer repository.Viewer) (*entity.Post, error) {
	filter := availabilityFilter(viewer)
	filter["_id"] = id
	return findOneAndUpdate[entity.Post](ctx, r.coll, filter, bson.M{
		"$pull": bson.M{"likes": userID},
	})
}

func (r *mongoPostRepository) UpdateTags(ctx context.Context, id string, tags []string) (*entity.Post, error) {
	return findOneAndUpdate[entity.Post](ctx, r.coll, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"tags": tags, "updatedAt": time.Now()},
	})
}

func (r *mongoPostRepository) Freeze(ctx context.Context, id, byUserID string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "freezedAt": bson.M{"$exists": false}},
		bson.M{
			"$set":   bson.M{"freezedAt": time.Now(), "freezedBy": byUserID},
			"$unset": bson.M{"restoredAt": 1, "restoredBy": 1},
		})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoPostRepository) ListVisible(ctx context.Context, viewer repository.Viewer, page repository.Page) (*repository.Paginated[*entity.Post], error) {
	filter := availabilityFilter(viewer)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return paginate[entity.Post](ctx, r.coll, filter, page, opts)
}

func (r *mongoPostRepository) ListAll(ctx context.Context, page repository.Page) (*repository.Paginated[*entity.Post], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return paginate[entity.Post](ctx, r.coll, bson.M{}, page, opts)
}
