package domain

import "time"

// Social platforms a profile may link to.
const (
	SocialYouTube   = "youtube"
	SocialTwitter   = "twitter"
	SocialFacebook  = "facebook"
	SocialLinkedIn  = "linkedin"
	SocialInstagram = "instagram"
)

// ProfileOwner is the public slice of the user a profile belongs to.
type ProfileOwner struct {
	ID     ID
	Name   string
	Avatar string
}

// Profile is the developer profile of a single user.
type Profile struct {
	ID             ID
	User           ProfileOwner
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         []string
	Social         map[string]string
	Experience     []Experience
	Education      []Education
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Experience is a job entry. Lists are kept most recent first.
type Experience struct {
	ID          ID
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// Education is a school entry. Lists are kept most recent first.
type Education struct {
	ID           ID
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileFields holds the scalar part of a profile written by an upsert.
// Empty strings leave the stored value untouched; Social replaces the stored
// links as a whole.
type ProfileFields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         []string
	Social         map[string]string
}
