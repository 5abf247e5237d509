package mongodb

import (
	"time"

	"devconnector/internal/domain"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Avatar       string    `bson:"avatar"`
	CreatedAt    time.Time `bson:"date"`
}

type profileDoc struct {
	ID             string            `bson:"_id"`
	User           string            `bson:"user"`
	Company        string            `bson:"company,omitempty"`
	Website        string            `bson:"website,omitempty"`
	Location       string            `bson:"location,omitempty"`
	Bio            string            `bson:"bio,omitempty"`
	Status         string            `bson:"status"`
	GitHubUsername string            `bson:"githubusername,omitempty"`
	Skills         []string          `bson:"skills"`
	Social         map[string]string `bson:"social"`
	Experience     []experienceDoc   `bson:"experience"`
	Education      []educationDoc    `bson:"education"`
	CreatedAt      time.Time         `bson:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at"`
}

type experienceDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type postDoc struct {
	ID       string       `bson:"_id"`
	User     string       `bson:"user"`
	Name     string       `bson:"name"`
	Avatar   string       `bson:"avatar"`
	Text     string       `bson:"text"`
	Likes    []likeDoc    `bson:"likes"`
	Comments []commentDoc `bson:"comments"`
	Date     time.Time    `bson:"date"`
}

type likeDoc struct {
	User string `bson:"user"`
}

type commentDoc struct {
	ID     string    `bson:"_id"`
	User   string    `bson:"user"`
	Name   string    `bson:"name"`
	Avatar string    `bson:"avatar"`
	Text   string    `bson:"text"`
	Date   time.Time `bson:"date"`
}

func userFromDoc(d userDoc) *domain.User {
	return &domain.User{
		ID:           domain.ID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt,
	}
}

func profileFromDoc(d profileDoc, owner *userDoc) domain.Profile {
	p := domain.Profile{
		ID:             domain.ID(d.ID),
		User:           domain.ProfileOwner{ID: domain.ID(d.User)},
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GitHubUsername: d.GitHubUsername,
		Skills:         d.Skills,
		Social:         d.Social,
		Experience:     make([]domain.Experience, 0, len(d.Experience)),
		Education:      make([]domain.Education, 0, len(d.Education)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if owner != nil {
		p.User.Name = owner.Name
		p.User.Avatar = owner.Avatar
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Social == nil {
		p.Social = map[string]string{}
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, domain.Experience{
			ID:          domain.ID(e.ID),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From,
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	for _, e := range d.Education {
		p.Education = append(p.Education, domain.Education{
			ID:           domain.ID(e.ID),
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From,
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}
	return p
}

func experienceToDoc(e domain.Experience) experienceDoc {
	return experienceDoc{
		ID:          string(e.ID),
		Title:       e.Title,
		Company:     e.Company,
		Location:    e.Location,
		From:        e.From,
		To:          e.To,
		Current:     e.Current,
		Description: e.Description,
	}
}

func educationToDoc(e domain.Education) educationDoc {
	return educationDoc{
		ID:           string(e.ID),
		School:       e.School,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		From:         e.From,
		To:           e.To,
		Current:      e.Current,
		Description:  e.Description,
	}
}

func postFromDoc(d postDoc) domain.Post {
	p := domain.Post{
		ID:        domain.ID(d.ID),
		UserID:    domain.ID(d.User),
		Name:      d.Name,
		Avatar:    d.Avatar,
		Text:      d.Text,
		Likes:     make([]domain.Like, 0, len(d.Likes)),
		Comments:  make([]domain.Comment, 0, len(d.Comments)),
		CreatedAt: d.Date,
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, domain.Like{UserID: domain.ID(l.User)})
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, commentFromDoc(c))
	}
	return p
}

func commentFromDoc(c commentDoc) domain.Comment {
	return domain.Comment{
		ID:        domain.ID(c.ID),
		UserID:    domain.ID(c.User),
		Name:      c.Name,
		Avatar:    c.Avatar,
		Text:      c.Text,
		CreatedAt: c.Date,
	}
}

func commentToDoc(c domain.Comment) commentDoc {
	return commentDoc{
		ID:     string(c.ID),
		User:   string(c.UserID),
		Name:   c.Name,
		Avatar: c.Avatar,
		Text:   c.Text,
		Date:   c.CreatedAt,
	}
}
