package utils

import (
	"context"

	"film-catalog/internal/data/entity"

	"github.com/google/uuid"
)

// Identity is the caller resolved from a session by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == entity.RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext reports false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.UserID, ok
}
