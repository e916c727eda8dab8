package repository

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociogram/internal/domain/repository"
)

// Collection names.
const (
	usersCollection          = "users"
	postsCollection          = "posts"
	commentsCollection       = "comments"
	friendRequestsCollection = "friend_requests"
	chatsCollection          = "chats"
	tokensCollection         = "tokens"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

// notFrozen filters out soft-deleted documents.
func notFrozen() bson.M {
	return bson.M{"freezedAt": bson.M{"$exists": false}}
}

// paginate runs the uniform listing protocol over a collection: either
// every match (page.All) with the count and page fields left unset, or one
// skip/limit page with docsCount, limit, pages and currentPage filled in.
func paginate[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, page repository.Page, findOpts *options.FindOptions) (*repository.Paginated[*T], error) {
	if findOpts == nil {
		findOpts = options.Find()
	}

	out := &repository.Paginated[*T]{}
	if !page.All {
		number := page.Number
		if number < 1 {
			number = 1
		}
		size := page.Size
		if size < 1 {
			size = 5
		}
		findOpts.SetSkip(int64((number - 1) * size)).SetLimit(int64(size))

		count, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		pages := int(math.Ceil(float64(count) / float64(size)))
		out.DocsCount = &count
		out.Limit = &size
		out.Pages = &pages
		out.CurrentPage = &number
	}

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []*T{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	out.Result = result
	return out, nil
}

// findOne decodes a single document, reporting absence as (nil, nil).
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// findOneAndUpdate applies an update and returns the post-update document,
// (nil, nil) when nothing matched.
func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, update interface{}) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []*T{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
