package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

type UserRepository struct {
	client   *mongo.Client
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) repository.UserRepository {
	return &UserRepository{
		client:   client,
		users:    db.Collection(usersCollection),
		profiles: db.Collection(profilesCollection),
		posts:    db.Collection(postsCollection),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = domain.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.users.InsertOne(ctx, userDoc{
		ID:           string(user.ID),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user %s: %w", user.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

// DeleteCascade runs inside a multi-document transaction. Standalone servers
// do not support transactions; there the deletes run in order posts, profile,
// user so that an interrupted call leaves the user in place and can be
// repeated.
func (r *UserRepository) DeleteCascade(ctx context.Context, id domain.ID) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.deleteAll(sc, id)
	})
	if err == nil {
		return nil
	}
	if !transactionsUnsupported(err) {
		return err
	}
	return r.deleteAll(ctx, id)
}

func (r *UserRepository) deleteAll(ctx context.Context, id domain.ID) error {
	if _, err := r.posts.DeleteMany(ctx, bson.M{"user": string(id)}); err != nil {
		return fmt.Errorf("mongo delete posts: %w", err)
	}
	if _, err := r.profiles.DeleteOne(ctx, bson.M{"user": string(id)}); err != nil {
		return fmt.Errorf("mongo delete profile: %w", err)
	}
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": string(id)}); err != nil {
		return fmt.Errorf("mongo delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return userFromDoc(doc), nil
}
