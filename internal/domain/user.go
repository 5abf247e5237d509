package domain

import "time"

// User represents a registered member of the network.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}
