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

var socialPlatforms = []string{
	domain.SocialYouTube,
	domain.SocialTwitter,
	domain.SocialFacebook,
	domain.SocialLinkedIn,
	domain.SocialInstagram,
}

// ProfileInput is the writable part of a profile.
type ProfileInput struct {
	Company        string            `json:"company"`
	Website        string            `json:"website"`
	Location       string            `json:"location"`
	Bio            string            `json:"bio"`
	Status         string            `json:"status" validate:"required" msg:"Status is required"`
	GitHubUsername string            `json:"githubusername"`
	Skills         []string          `json:"skills" validate:"min=1" msg:"Skills is required"`
	Social         map[string]string `json:"social"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,date" msg:"From date is required" msg_date:"From date is invalid"`
	To          string `json:"to" validate:"omitempty,date" msg:"To date is invalid"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required,date" msg:"From date is required" msg_date:"From date is invalid"`
	To           string `json:"to" validate:"omitempty,date" msg:"To date is invalid"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ProfileService coordinates profile reads and owner-scoped mutations.
type ProfileService interface {
	Upsert(ctx context.Context, userID domain.ID, in ProfileInput) (*domain.Profile, error)
	// Me returns the caller's own profile.
	Me(ctx context.Context, userID domain.ID) (*domain.Profile, error)
	GetByUser(ctx context.Context, userID domain.ID) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	AddExperience(ctx context.Context, userID domain.ID, in ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID domain.ID) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID domain.ID, in EducationInput) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID domain.ID) (*domain.Profile, error)
}

type profileService struct {
	profiles  repository.ProfileRepository
	users     repository.UserRepository
	validator *validation.Validator
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, v *validation.Validator) ProfileService {
	return &profileService{
		profiles:  profiles,
		users:     users,
		validator: v,
	}
}

// ParseSkills splits a comma separated skill list, trimming every entry and
// dropping empty ones.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func (s *profileService) Upsert(ctx context.Context, userID domain.ID, in ProfileInput) (*domain.Profile, error) {
	in.Status = strings.TrimSpace(in.Status)
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	social := make(map[string]string)
	for _, platform := range socialPlatforms {
		if link := strings.TrimSpace(in.Social[platform]); link != "" {
			social[platform] = link
		}
	}

	profile, err := s.profiles.Upsert(ctx, userID, domain.ProfileFields{
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Bio:            strings.TrimSpace(in.Bio),
		Status:         in.Status,
		GitHubUsername: strings.TrimSpace(in.GitHubUsername),
		Skills:         in.Skills,
		Social:         social,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Me(ctx context.Context, userID domain.ID) (*domain.Profile, error) {
	return s.GetByUser(ctx, userID)
}

func (s *profileService) GetByUser(ctx context.Context, userID domain.ID) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

func (s *profileService) AddExperience(ctx context.Context, userID domain.ID, in ExperienceInput) (*domain.Profile, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}

	entry := domain.Experience{
		ID:          domain.NewID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := s.profiles.AddExperience(ctx, userID, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("add experience: %w", err)
	}
	return s.GetByUser(ctx, userID)
}

func (s *profileService) RemoveExperience(ctx context.Context, userID, entryID domain.ID) (*domain.Profile, error) {
	if err := s.profiles.RemoveExperience(ctx, userID, entryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("remove experience: %w", err)
	}
	return s.GetByUser(ctx, userID)
}

func (s *profileService) AddEducation(ctx context.Context, userID domain.ID, in EducationInput) (*domain.Profile, error) {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}

	entry := domain.Education{
		ID:           domain.NewID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := s.profiles.AddEducation(ctx, userID, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("add education: %w", err)
	}
	return s.GetByUser(ctx, userID)
}

func (s *profileService) RemoveEducation(ctx context.Context, userID, entryID domain.ID) (*domain.Profile, error) {
	if err := s.profiles.RemoveEducation(ctx, userID, entryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEducationNotFound
		}
		return nil, fmt.Errorf("remove education: %w", err)
	}
	return s.GetByUser(ctx, userID)
}

// parseRange expects inputs already checked by the date rule.
func parseRange(fromRaw, toRaw string) (from time.Time, to *time.Time, err error) {
	from, err = validation.ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, validation.NewError("From date is invalid")
	}
	if strings.TrimSpace(toRaw) == "" {
		return from, nil, nil
	}
	end, err := validation.ParseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, validation.NewError("To date is invalid")
	}
	return from, &end, nil
}
