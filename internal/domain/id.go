package domain

import "github.com/google/uuid"

// ID identifies any stored entity. Values are opaque and compared as-is.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}
