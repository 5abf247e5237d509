package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
	"devconnector/internal/validation"
)

type postInput struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// PostService describes post, like and comment operations. Every mutation
// acts on behalf of the authenticated caller.
type PostService interface {
	Create(ctx context.Context, userID domain.ID, text string) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id domain.ID) (*domain.Post, error)
	Delete(ctx context.Context, userID, postID domain.ID) error
	Like(ctx context.Context, userID, postID domain.ID) ([]domain.Like, error)
	Unlike(ctx context.Context, userID, postID domain.ID) ([]domain.Like, error)
	AddComment(ctx context.Context, userID, postID domain.ID, text string) ([]domain.Comment, error)
	RemoveComment(ctx context.Context, userID, postID, commentID domain.ID) ([]domain.Comment, error)
}

type postService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	validator *validation.Validator
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, v *validation.Validator) PostService {
	return &postService{
		posts:     posts,
		users:     users,
		validator: v,
	}
}

func (s *postService) Create(ctx context.Context, userID domain.ID, text string) (*domain.Post, error) {
	in := postInput{Text: strings.TrimSpace(text)}
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID:    author.ID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      in.Text,
		Likes:     []domain.Like{},
		Comments:  []domain.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) Get(ctx context.Context, id domain.ID) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, userID, postID domain.ID) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *postService) Like(ctx context.Context, userID, postID domain.ID) ([]domain.Like, error) {
	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repository.ErrAlreadyLiked):
			return nil, ErrAlreadyLiked
		}
		return nil, fmt.Errorf("like post: %w", err)
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *postService) Unlike(ctx context.Context, userID, postID domain.ID) ([]domain.Like, error) {
	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repository.ErrNotLiked):
			return nil, ErrNotLiked
		}
		return nil, fmt.Errorf("unlike post: %w", err)
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *postService) AddComment(ctx context.Context, userID, postID domain.ID, text string) ([]domain.Comment, error) {
	in := postInput{Text: strings.TrimSpace(text)}
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:        domain.NewID(),
		UserID:    author.ID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      in.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (s *postService) RemoveComment(ctx context.Context, userID, postID, commentID domain.ID) ([]domain.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	var comment *domain.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("remove comment: %w", err)
	}
	post, err = s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// author snapshots the caller's name and avatar onto new posts and comments.
func (s *postService) author(ctx context.Context, userID domain.ID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
