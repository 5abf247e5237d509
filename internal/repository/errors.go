package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrAlreadyLiked is returned when a like would duplicate an existing one.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrNotLiked is returned when removing a like that is not present.
	ErrNotLiked = errors.New("not liked")
)
