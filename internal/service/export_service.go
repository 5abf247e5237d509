package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
	"devconnector/internal/storage"
)

// ExportURLTTL bounds how long a presigned export link stays valid.
const ExportURLTTL = 15 * time.Minute

// Export describes an uploaded account snapshot.
type Export struct {
	Key      string
	Location string
	URL      string
}

// ExportService writes account snapshots to object storage.
type ExportService interface {
	Export(ctx context.Context, userID domain.ID) (*Export, error)
	List(ctx context.Context, userID domain.ID) ([]storage.ObjectInfo, error)
	// Purge removes every export of the user.
	Purge(ctx context.Context, userID domain.ID) error
	Enabled() bool
}

type exportService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	posts     repository.PostRepository
	store     storage.Service
	bucket    string
	keyPrefix string
	now       func() time.Time
}

// NewExportService returns a service that answers ErrStorageNotConfigured
// when store is nil or bucket is empty.
func NewExportService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	posts repository.PostRepository,
	store storage.Service,
	bucket, keyPrefix string,
) ExportService {
	return &exportService{
		users:     users,
		profiles:  profiles,
		posts:     posts,
		store:     store,
		bucket:    strings.TrimSpace(bucket),
		keyPrefix: strings.Trim(keyPrefix, "/"),
		now:       time.Now,
	}
}

func (s *exportService) Enabled() bool {
	return s.store != nil && s.bucket != ""
}

func (s *exportService) Export(ctx context.Context, userID domain.ID) (*Export, error) {
	if !s.Enabled() {
		return nil, ErrStorageNotConfigured
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	now := s.now().UTC()
	doc := exportDocument{
		ExportedAt: now,
		User:       newExportUser(user),
		Profile:    newExportProfile(profile),
		Posts:      newExportPosts(posts),
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := path.Join(s.userPrefix(userID), "export-"+now.Format("20060102T150405Z")+".json")
	location, err := s.store.PutObject(ctx, bytes.NewReader(payload), storage.PutOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.store.GetObjectURL(ctx, s.bucket, key, ExportURLTTL)
	if err != nil {
		return nil, fmt.Errorf("sign export url: %w", err)
	}

	return &Export{Key: key, Location: location, URL: url}, nil
}

func (s *exportService) List(ctx context.Context, userID domain.ID) ([]storage.ObjectInfo, error) {
	if !s.Enabled() {
		return nil, ErrStorageNotConfigured
	}
	objects, err := s.store.ListObjects(ctx, s.bucket, s.userPrefix(userID)+"/")
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return objects, nil
}

func (s *exportService) Purge(ctx context.Context, userID domain.ID) error {
	if !s.Enabled() {
		return ErrStorageNotConfigured
	}
	if err := s.store.DeletePrefix(ctx, s.bucket, s.userPrefix(userID)+"/"); err != nil {
		return fmt.Errorf("purge exports: %w", err)
	}
	return nil
}

func (s *exportService) userPrefix(userID domain.ID) string {
	if s.keyPrefix == "" {
		return userID.String()
	}
	return s.keyPrefix + "/" + userID.String()
}
