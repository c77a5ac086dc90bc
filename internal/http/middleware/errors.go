package middleware

import "errors"

var (
	errMissingToken = errors.New("missing or invalid token")
	errNoIdentity   = errors.New("token carries no identity")
	errAdminOnly    = errors.New("admin role required")
)
