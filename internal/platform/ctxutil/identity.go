package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type identityKey struct{}

// Identity is the already-authenticated caller attached by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	switch i.Role {
	case "admin", "hr_admin", "super_admin":
		return true
	default:
		return false
	}
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return id
	}
	return nil
}
