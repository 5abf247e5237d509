package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// PostRepository stores likes and comments embedded in the post document and
// mutates them with conditional array operators only.
type PostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(db *mongo.Database) repository.PostRepository {
	return &PostRepository{posts: db.Collection(postsCollection)}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID.IsZero() {
		post.ID = domain.NewID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.Likes == nil {
		post.Likes = []domain.Like{}
	}
	if post.Comments == nil {
		post.Comments = []domain.Comment{}
	}

	_, err := r.posts.InsertOne(ctx, postDoc{
		ID:       string(post.ID),
		User:     string(post.UserID),
		Name:     post.Name,
		Avatar:   post.Avatar,
		Text:     post.Text,
		Likes:    []likeDoc{},
		Comments: []commentDoc{},
		Date:     post.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("mongo insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id domain.ID) (*domain.Post, error) {
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("mongo find post: %w", err)
	}
	post := postFromDoc(doc)
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *PostRepository) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Post, error) {
	return r.find(ctx, bson.M{"user": string(userID)})
}

func (r *PostRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("mongo delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID domain.ID) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": string(postID), "likes.user": bson.M{"$ne": string(userID)}},
		bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     bson.A{likeDoc{User: string(userID)}},
			"$position": 0,
		}}},
	)
	if err != nil {
		return fmt.Errorf("mongo push like: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if err := r.exists(ctx, postID); err != nil {
		return err
	}
	return repository.ErrAlreadyLiked
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID domain.ID) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": string(postID), "likes.user": string(userID)},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": string(userID)}}},
	)
	if err != nil {
		return fmt.Errorf("mongo pull like: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if err := r.exists(ctx, postID); err != nil {
		return err
	}
	return repository.ErrNotLiked
}

func (r *PostRepository) AddComment(ctx context.Context, postID domain.ID, comment domain.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = domain.NewID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": string(postID)},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     bson.A{commentToDoc(comment)},
			"$position": 0,
		}}},
	)
	if err != nil {
		return fmt.Errorf("mongo push comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID domain.ID) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": string(postID), "comments._id": string(commentID)},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": string(commentID)}}},
	)
	if err != nil {
		return fmt.Errorf("mongo pull comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) exists(ctx context.Context, id domain.ID) error {
	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": string(id)}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo count post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("post: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, postFromDoc(d))
	}
	return posts, nil
}
