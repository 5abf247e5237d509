package domain

import "time"

// Post is a short text published by a user.
type Post struct {
	ID        ID
	UserID    ID
	Name      string
	Avatar    string
	Text      string
	Likes     []Like
	Comments  []Comment
	CreatedAt time.Time
}

// Like records that a user liked a post. Newest first.
type Like struct {
	UserID ID
}

// Comment is embedded in a post and lives and dies with it.
type Comment struct {
	ID        ID
	UserID    ID
	Name      string
	Avatar    string
	Text      string
	CreatedAt time.Time
}

// LikedBy reports whether the user is in the post's like set.
func (p *Post) LikedBy(userID ID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
