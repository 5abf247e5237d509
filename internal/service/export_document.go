package service

import (
	"time"

	"devconnector/internal/domain"
)

// The export file uses the same field names as the API responses so a
// snapshot can be read with the same client code.

type exportDocument struct {
	ExportedAt time.Time      `json:"exported_at"`
	User       exportUser     `json:"user"`
	Profile    *exportProfile `json:"profile"`
	Posts      []exportPost   `json:"posts"`
}

type exportUser struct {
	ID     domain.ID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type exportProfileOwner struct {
	ID     domain.ID `json:"_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type exportProfile struct {
	ID             domain.ID          `json:"_id"`
	User           exportProfileOwner `json:"user"`
	Company        string             `json:"company"`
	Website        string             `json:"website"`
	Location       string             `json:"location"`
	Bio            string             `json:"bio"`
	Status         string             `json:"status"`
	GitHubUsername string             `json:"githubusername"`
	Skills         []string           `json:"skills"`
	Social         map[string]string  `json:"social"`
	Experience     []exportExperience `json:"experience"`
	Education      []exportEducation  `json:"education"`
	Date           time.Time          `json:"date"`
}

type exportExperience struct {
	ID          domain.ID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type exportEducation struct {
	ID           domain.ID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

type exportLike struct {
	User domain.ID `json:"user"`
}

type exportComment struct {
	ID     domain.ID `json:"_id"`
	User   domain.ID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type exportPost struct {
	ID       domain.ID       `json:"_id"`
	User     domain.ID       `json:"user"`
	Text     string          `json:"text"`
	Name     string          `json:"name"`
	Avatar   string          `json:"avatar"`
	Likes    []exportLike    `json:"likes"`
	Comments []exportComment `json:"comments"`
	Date     time.Time       `json:"date"`
}

func newExportUser(user *domain.User) exportUser {
	return exportUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Date:   user.CreatedAt.UTC(),
	}
}

// newExportProfile returns nil for a user without a profile.
func newExportProfile(profile *domain.Profile) *exportProfile {
	if profile == nil {
		return nil
	}
	out := &exportProfile{
		ID: profile.ID,
		User: exportProfileOwner{
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
		Experience:     make([]exportExperience, len(profile.Experience)),
		Education:      make([]exportEducation, len(profile.Education)),
		Date:           profile.CreatedAt.UTC(),
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.Social == nil {
		out.Social = map[string]string{}
	}
	for i, exp := range profile.Experience {
		out.Experience[i] = exportExperience{
			ID:          exp.ID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			From:        exp.From.UTC(),
			To:          exp.To,
			Current:     exp.Current,
			Description: exp.Description,
		}
	}
	for i, edu := range profile.Education {
		out.Education[i] = exportEducation{
			ID:           edu.ID,
			School:       edu.School,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			From:         edu.From.UTC(),
			To:           edu.To,
			Current:      edu.Current,
			Description:  edu.Description,
		}
	}
	return out
}

func newExportPosts(posts []domain.Post) []exportPost {
	out := make([]exportPost, len(posts))
	for i, post := range posts {
		likes := make([]exportLike, len(post.Likes))
		for j, l := range post.Likes {
			likes[j] = exportLike{User: l.UserID}
		}
		comments := make([]exportComment, len(post.Comments))
		for j, cm := range post.Comments {
			comments[j] = exportComment{
				ID:     cm.ID,
				User:   cm.UserID,
				Text:   cm.Text,
				Name:   cm.Name,
				Avatar: cm.Avatar,
				Date:   cm.CreatedAt.UTC(),
			}
		}
		out[i] = exportPost{
			ID:       post.ID,
			User:     post.UserID,
			Text:     post.Text,
			Name:     post.Name,
			Avatar:   post.Avatar,
			Likes:    likes,
			Comments: comments,
			Date:     post.CreatedAt.UTC(),
		}
	}
	return out
}
