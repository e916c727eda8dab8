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

type mongoChatRepository struct {
	coll *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	return &mongoChatRepository{coll: db.Collection(chatsCollection)}
}

func (r *mongoChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = newID()
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.Messages == nil {
		chat.Messages = []entity.Message{}
	}
	_, err := r.coll.InsertOne(ctx, chat)
	return err
}

// TailWindowBounds computes the slice of an append-only list that a
// tail-relative page covers: page 1 is the most recent size entries,
// page 2 the size entries before that. Start/length address the list in
// stored (chronological) order; length is 0 once the offset from the
// tail exceeds the list.
func TailWindowBounds(total, page, size int) (start, length int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 5
	}
	skip := (page - 1) * size
	if skip >= total {
		return 0, 0
	}
	length = total - skip
	if length > size {
		length = size
	}
	start = total - skip - length
	return start, length
}

// windowOne fetches one chat with its message list cut to the requested
// tail window server side.
func (r *mongoChatRepository) windowOne(ctx context.Context, filter bson.M, page, size int) (*entity.Chat, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 5
	}
	skip := (page - 1) * size

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"messages": bson.M{"$let": bson.M{
				"vars": bson.M{
					"total": bson.M{"$size": bson.M{"$ifNull": bson.A{"$messages", bson.A{}}}},
				},
				"in": bson.M{"$cond": bson.A{
					bson.M{"$gte": bson.A{skip, "$$total"}},
					bson.A{},
					bson.M{"$slice": bson.A{
						"$messages",
						bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$$total", skip + size}}}},
						bson.M{"$min": bson.A{size, bson.M{"$subtract": bson.A{"$$total", skip}}}},
					}},
				}},
			}},
		}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []*entity.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, nil
	}
	return chats[0], nil
}

func directFilter(userID, otherID string) bson.M {
	return bson.M{
		"participants": bson.M{"$all": []string{userID, otherID}, "$size": 2},
		"group":        bson.M{"$exists": false},
	}
}

func (r *mongoChatRepository) GetDirectWindow(ctx context.Context, userID, otherID string, page, size int) (*entity.Chat, error) {
	return r.windowOne(ctx, directFilter(userID, otherID), page, size)
}

func (r *mongoChatRepository) GetGroupWindow(ctx context.Context, groupID, userID string, page, size int) (*entity.Chat, error) {
	return r.windowOne(ctx, bson.M{
		"_id":          groupID,
		"group":        bson.M{"$exists": true},
		"participants": userID,
	}, page, size)
}

func (r *mongoChatRepository) GetGroup(ctx context.Context, groupID string, participantID string) (*entity.Chat, error) {
	return findOne[entity.Chat](ctx, r.coll, bson.M{
		"_id":          groupID,
		"group":        bson.M{"$exists": true},
		"participants": participantID,
	}, options.FindOne().SetProjection(bson.M{"messages": bson.M{"$slice": 0}}))
}

func (r *mongoChatRepository) AppendDirectMessage(ctx context.Context, userID, otherID string, message entity.Message) (string, error) {
	now := time.Now()
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"_id":          newID(),
			"participants": []string{userID, otherID},
			"createdBy":    userID,
			"createdAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"messages": bson.M{"$slice": 0}})

	var chat entity.Chat
	if err := r.coll.FindOneAndUpdate(ctx, directFilter(userID, otherID), update, opts).Decode(&chat); err != nil {
		return "", err
	}
	return chat.ID, nil
}

func (r *mongoChatRepository) AppendGroupMessage(ctx context.Context, groupID, senderID string, message entity.Message) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{
		"_id":          groupID,
		"group":        bson.M{"$exists": true},
		"participants": senderID,
	}, bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoChatRepository) SetGroupImage(ctx context.Context, groupID, createdBy, imageKey string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{
		"_id":       groupID,
		"group":     bson.M{"$exists": true},
		"createdBy": createdBy,
	}, bson.M{
		"$set": bson.M{"groupImageKey": imageKey, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoChatRepository) ListGroupsByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	opts := options.Find().SetProjection(bson.M{"messages": bson.M{"$slice": 0}})
	return findMany[entity.Chat](ctx, r.coll, bson.M{
		"participants": userID,
		"group":        bson.M{"$exists": true},
	}, opts)
}
