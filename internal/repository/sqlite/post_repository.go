package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

const selectPost = `
SELECT id, user_id, name, avatar, text, created_at
FROM posts`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
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

	_, err := r.db.ExecContext(ctx, `
INSERT INTO posts (id, user_id, name, avatar, text, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		string(post.ID),
		string(post.UserID),
		post.Name,
		post.Avatar,
		post.Text,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id domain.ID) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, selectPost+`
WHERE id = ?`,
		string(id),
	)
	post, err := scanPost(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadReactions(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, selectPost+`
ORDER BY created_at DESC, rowid DESC`)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Post, error) {
	return r.list(ctx, selectPost+`
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC`, string(userID))
}

func (r *PostRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(res, "post")
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO post_likes (post_id, user_id)
SELECT id, ? FROM posts WHERE id = ?`,
		string(userID),
		string(postID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return expectAffected(res, "post")
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		string(postID),
		string(userID),
	)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("like rows affected: %w", err)
	}
	if n > 0 {
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
	res, err := r.db.ExecContext(ctx, `
INSERT INTO post_comments (id, post_id, user_id, name, avatar, text, created_at)
SELECT ?, id, ?, ?, ?, ?, ? FROM posts WHERE id = ?`,
		string(comment.ID),
		string(comment.UserID),
		comment.Name,
		comment.Avatar,
		comment.Text,
		comment.CreatedAt,
		string(postID),
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return expectAffected(res, "post")
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM post_comments WHERE id = ? AND post_id = ?`,
		string(commentID),
		string(postID),
	)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return expectAffected(res, "comment")
}

func (r *PostRepository) exists(ctx context.Context, id domain.ID) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, string(id)).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return fmt.Errorf("check post: %w", err)
	}
	return nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	// release the connection before loading likes and comments
	rows.Close()

	for i := range posts {
		if err := r.loadReactions(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *PostRepository) loadReactions(ctx context.Context, post *domain.Post) error {
	likeRows, err := r.db.QueryContext(ctx, `
SELECT user_id FROM post_likes WHERE post_id = ? ORDER BY seq DESC`,
		string(post.ID),
	)
	if err != nil {
		return fmt.Errorf("list likes: %w", err)
	}
	post.Likes = []domain.Like{}
	for likeRows.Next() {
		var userID string
		if err := likeRows.Scan(&userID); err != nil {
			likeRows.Close()
			return fmt.Errorf("scan like: %w", err)
		}
		post.Likes = append(post.Likes, domain.Like{UserID: domain.ID(userID)})
	}
	if err := likeRows.Err(); err != nil {
		likeRows.Close()
		return fmt.Errorf("iterate likes: %w", err)
	}
	likeRows.Close()

	commentRows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, avatar, text, created_at
FROM post_comments
WHERE post_id = ?
ORDER BY seq DESC`,
		string(post.ID),
	)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	defer commentRows.Close()

	post.Comments = []domain.Comment{}
	for commentRows.Next() {
		var (
			comment    domain.Comment
			id, userID string
		)
		if err := commentRows.Scan(&id, &userID, &comment.Name, &comment.Avatar, &comment.Text, &comment.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		comment.ID = domain.ID(id)
		comment.UserID = domain.ID(userID)
		post.Comments = append(post.Comments, comment)
	}
	if err := commentRows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}
	return nil
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		post       domain.Post
		id, userID string
	)
	if err := row.Scan(&id, &userID, &post.Name, &post.Avatar, &post.Text, &post.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	post.ID = domain.ID(id)
	post.UserID = domain.ID(userID)
	return &post, nil
}
