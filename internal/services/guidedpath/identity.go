package guidedpath

import (
	"context"

	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/ctxutil"
)

func requireIdentity(ctx context.Context) (*ctxutil.Identity, error) {
	id := ctxutil.GetIdentity(ctx)
	if id == nil || id.UserID == uuid.Nil || id.OrgID == uuid.Nil {
		return nil, apierr.Unauthorized(ErrUnauthorized)
	}
	return id, nil
}

func requireAdmin(ctx context.Context) (*ctxutil.Identity, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		return nil, apierr.Forbidden(ErrAdminRequired)
	}
	return id, nil
}

func validateRating(v *int) error {
	if v != nil && (*v < 0 || *v > 10) {
		return apierr.Validation(ErrInvalidRating)
	}
	return nil
}

func validateStressBand(v *string) error {
	if v != nil && *v != "" && !IsStressBand(*v) {
		return apierr.Validation(ErrInvalidStressBand)
	}
	return nil
}

func validateAvailableTime(v *int) error {
	if v != nil && *v <= 0 {
		return apierr.Validation(ErrInvalidAvailableTime)
	}
	return nil
}
