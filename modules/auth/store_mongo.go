package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoStore implements UserStorage on a MongoDB collection.
type MongoStore struct {
	users *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed user store.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the indexes the store relies on. Safe to call on
// every startup; MongoDB treats existing identical indexes as a no-op.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auth0_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "reset_token", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid}, ErrUserNotFound)
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email}, ErrUserNotFound)
}

func (s *MongoStore) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*User, error) {
	return s.findOne(ctx, bson.M{"auth0_id": auth0ID}, ErrUserNotFound)
}

func (s *MongoStore) UpdateProfile(ctx context.Context, id string, fullname, bio *string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if fullname != nil {
		set["fullname"] = *fullname
	}
	if bio != nil {
		set["bio"] = *bio
	}

	var user User
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) IssueResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	// Conditional write: matches only when no token is stored or the stored
	// one has already expired. A concurrent request loses the race and sees
	// MatchedCount == 0.
	res, err := s.users.UpdateOne(ctx,
		bson.M{
			"_id": oid,
			"$or": bson.A{
				bson.M{"reset_expires": bson.M{"$exists": false}},
				bson.M{"reset_expires": bson.M{"$lte": time.Now().UTC()}},
			},
		},
		bson.M{"$set": bson.M{
			"reset_token":   token,
			"reset_expires": expiresAt.UTC(),
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrResetAlreadyPending
	}
	return nil
}

func (s *MongoStore) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	return s.findOne(ctx, bson.M{
		"reset_token":   token,
		"reset_expires": bson.M{"$gt": time.Now().UTC()},
	}, ErrTokenInvalid)
}

func (s *MongoStore) ConsumeResetToken(ctx context.Context, token string, newHash []byte) (*User, error) {
	var user User
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{
			"reset_token":   token,
			"reset_expires": bson.M{"$gt": time.Now().UTC()},
		},
		bson.M{
			"$set": bson.M{
				"password":   newHash,
				"updated_at": time.Now().UTC(),
			},
			"$unset": bson.M{
				"reset_token":   "",
				"reset_expires": "",
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("consume reset token: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, notFound error) (*User, error) {
	var user User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
