package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a valid token names a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment does not exist")

	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("user not authorized")

	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post has not yet been liked")

	// ErrStorageNotConfigured is returned by export operations without an object store.
	ErrStorageNotConfigured = errors.New("storage service not configured")
)
