package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/todopad/todopad-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const usersCollection = "users"

// UserRepository handles user persistence operations.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = bson.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByToken retrieves the user identified by idHex that currently holds the
// given auth-scoped token. Requiring the exact token string in the stored
// collection is what makes revoked tokens fail despite a valid signature.
// A malformed idHex resolves to ErrUserNotFound.
func (r *UserRepository) GetByToken(ctx context.Context, idHex, token string) (*model.User, error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrUserNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "tokens.token", Value: token},
		{Key: "tokens.access", Value: model.ScopeAuth},
	}

	user := &model.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// PushToken appends an issued token to the user's token collection.
func (r *UserRepository) PushToken(ctx context.Context, id bson.ObjectID, token model.AuthToken) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "tokens", Value: token}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// PullToken removes a token from the user's token collection. Removing a
// token that is not present is a no-op success.
func (r *UserRepository) PullToken(ctx context.Context, id bson.ObjectID, token string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "tokens", Value: bson.D{{Key: "token", Value: token}}}}}},
	)
	return err
}
