package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sociogram/internal/domain/entity"
	"sociogram/internal/domain/repository"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.coll, bson.M{"email": email})
}

func (r *mongoUserRepository) GetByEmailAndProvider(ctx context.Context, email string, provider entity.Provider) (*entity.User, error) {
	return findOne[entity.User](ctx, r.coll, bson.M{"email": email, "provider": provider})
}

func (r *mongoUserRepository) GetPendingConfirmation(ctx context.Context, email string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.coll, bson.M{
		"email":           email,
		"confirmEmailOtp": bson.M{"$exists": true},
		"confirmedAt":     bson.M{"$exists": false},
	})
}

func (r *mongoUserRepository) GetPendingReset(ctx context.Context, email string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.coll, bson.M{
		"email":            email,
		"provider":         entity.ProviderSystem,
		"resetPasswordOtp": bson.M{"$exists": true},
	})
}

func (r *mongoUserRepository) UpdateByID(ctx context.Context, id string, set repository.UserUpdate, unset []string) error {
	return r.update(ctx, bson.M{"_id": id}, set, unset)
}

func (r *mongoUserRepository) UpdateByEmail(ctx context.Context, email string, set repository.UserUpdate, unset []string) error {
	return r.update(ctx, bson.M{"email": email}, set, unset)
}

func (r *mongoUserRepository) update(ctx context.Context, filter bson.M, set repository.UserUpdate, unset []string) error {
	setDoc := bson.M{"updatedAt": time.Now()}
	for key, value := range set {
		setDoc[key] = value
	}
	update := bson.M{"$set": setDoc}
	if len(unset) > 0 {
		unsetDoc := bson.M{}
		for _, field := range unset {
			unsetDoc[field] = 1
		}
		update["$unset"] = unsetDoc
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"friends": friendID},
	})
	return err
}

func (r *mongoUserRepository) CountExisting(ctx context.Context, ids []string, exclude string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"_id": bson.M{"$in": ids, "$ne": exclude},
	})
}

func (r *mongoUserRepository) Freeze(ctx context.Context, userID, byUserID string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "freezedAt": bson.M{"$exists": false}},
		bson.M{
			"$set": bson.M{
				"freezedAt":             time.Now(),
				"freezedBy":             byUserID,
				"changeCredentialsTime": time.Now(),
			},
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

func (r *mongoUserRepository) Restore(ctx context.Context, userID, byUserID string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "freezedBy": bson.M{"$ne": userID}},
		bson.M{
			"$set":   bson.M{"restoredAt": time.Now(), "restoredBy": byUserID},
			"$unset": bson.M{"freezedAt": 1, "freezedBy": 1},
		})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepository) Block(ctx context.Context, userID, byUserID string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "blockedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"blockedAt": time.Now(), "blockedBy": byUserID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepository) ChangeRole(ctx context.Context, userID string, role entity.Role, denied []entity.Role) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "role": bson.M{"$nin": denied}},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepository) HardDelete(ctx context.Context, userID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{
		"_id":       userID,
		"freezedAt": bson.M{"$exists": true},
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoUserRepository) List(ctx context.Context, page repository.Page) (*repository.Paginated[*entity.User], error) {
	return paginate[entity.User](ctx, r.coll, bson.M{}, page, nil)
}

func (r *mongoUserRepository) GetMany(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}
	return findMany[entity.User](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}
