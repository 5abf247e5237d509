package auth

import (
	"context"

	"devconnector/internal/domain"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID domain.ID
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID.IsZero() {
		return Identity{}, false
	}
	return id, true
}
