package http

import (
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/storage"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID     domain.ID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   string    `json:"date"`
}

type ProfileOwnerResponse struct {
	ID     domain.ID `json:"_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type ProfileResponse struct {
	ID             domain.ID            `json:"_id"`
	User           ProfileOwnerResponse `json:"user"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Status         string               `json:"status"`
	GitHubUsername string               `json:"githubusername,omitempty"`
	Skills         []string             `json:"skills"`
	Social         map[string]string    `json:"social"`
	Experience     []ExperienceResponse `json:"experience"`
	Education      []EducationResponse  `json:"education"`
	Date           string               `json:"date"`
}

type ExperienceResponse struct {
	ID          domain.ID `json:"_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        string    `json:"from"`
	To          *string   `json:"to"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

type EducationResponse struct {
	ID           domain.ID `json:"_id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         string    `json:"from"`
	To           *string   `json:"to"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

type LikeResponse struct {
	User domain.ID `json:"user"`
}

type CommentResponse struct {
	ID     domain.ID `json:"_id"`
	User   domain.ID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   string    `json:"date"`
}

type PostResponse struct {
	ID       domain.ID         `json:"_id"`
	User     domain.ID         `json:"user"`
	Text     string            `json:"text"`
	Name     string            `json:"name"`
	Avatar   string            `json:"avatar"`
	Likes    []LikeResponse    `json:"likes"`
	Comments []CommentResponse `json:"comments"`
	Date     string            `json:"date"`
}

type ExportResponse struct {
	Location string `json:"location"`
	URL      string `json:"url"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := formatTime(*t)
	return &v
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Date:   formatTime(user.CreatedAt),
	}
}

func profileToResponse(profile domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID: profile.ID,
		User: ProfileOwnerResponse{
			ID:     profile.User.ID,
			Name:   profile.User.Name,
			Avatar: profile.User.Avatar,
		},
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		Status:         profile.Status,
		GitHubUsername: profile.GitHubUsername,
		Skills:         profile.Skills,
		Social:         profile.Social,
		Experience:     make([]ExperienceResponse, len(profile.Experience)),
		Education:      make([]EducationResponse, len(profile.Education)),
		Date:           formatTime(profile.CreatedAt),
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if resp.Social == nil {
		resp.Social = map[string]string{}
	}

	for i, exp := range profile.Experience {
		resp.Experience[i] = ExperienceResponse{
			ID:          exp.ID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			From:        formatTime(exp.From),
			To:          formatTimePtr(exp.To),
			Current:     exp.Current,
			Description: exp.Description,
		}
	}
	for i, edu := range profile.Education {
		resp.Education[i] = EducationResponse{
			ID:           edu.ID,
			School:       edu.School,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			From:         formatTime(edu.From),
			To:           formatTimePtr(edu.To),
			Current:      edu.Current,
			Description:  edu.Description,
		}
	}
	return resp
}

func likesToResponse(likes []domain.Like) []LikeResponse {
	resp := make([]LikeResponse, len(likes))
	for i := range likes {
		resp[i] = LikeResponse{User: likes[i].UserID}
	}
	return resp
}

func commentsToResponse(comments []domain.Comment) []CommentResponse {
	resp := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		resp[i] = CommentResponse{
			ID:     cm.ID,
			User:   cm.UserID,
			Text:   cm.Text,
			Name:   cm.Name,
			Avatar: cm.Avatar,
			Date:   formatTime(cm.CreatedAt),
		}
	}
	return resp
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:       post.ID,
		User:     post.UserID,
		Text:     post.Text,
		Name:     post.Name,
		Avatar:   post.Avatar,
		Likes:    likesToResponse(post.Likes),
		Comments: commentsToResponse(post.Comments),
		Date:     formatTime(post.CreatedAt),
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
