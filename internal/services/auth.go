package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/platform/ctxutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

var (
	ErrMissingJWTSecret = errors.New("jwt secret key is required")
	ErrInvalidToken     = errors.New("invalid or expired token")
)

// JWTClaims carries the caller's identity. Tokens are issued upstream.
type JWTClaims struct {
	OrgID string `json:"org_id"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthService turns a bearer token into a request identity. It does not
// authenticate users; issuance lives with the identity provider.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(id ctxutil.Identity, ttl time.Duration) (string, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) (AuthService, error) {
	if strings.TrimSpace(jwtSecretKey) == "" {
		return nil, ErrMissingJWTSecret
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsedToken, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	})
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid user id", ErrInvalidToken)
	}
	orgID, err := uuid.Parse(claims.OrgID)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid org id", ErrInvalidToken)
	}
	return ctxutil.WithIdentity(ctx, &ctxutil.Identity{
		UserID: userID,
		OrgID:  orgID,
		Role:   strings.TrimSpace(claims.Role),
	}), nil
}

// IssueToken signs an HS256 token for id. Used by tests and local tooling.
func (as *authService) IssueToken(id ctxutil.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		OrgID: id.OrgID.String(),
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}
