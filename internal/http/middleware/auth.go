package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/http/response"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/ctxutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			c.Abort()
			response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errMissingToken)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			c.Abort()
			response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, err)
			return
		}
		id := ctxutil.GetIdentity(ctx)
		if id == nil || id.UserID == uuid.Nil || id.OrgID == uuid.Nil {
			c.Abort()
			response.RespondError(c, http.StatusForbidden, apierr.CodeForbidden, errNoIdentity)
			return
		}
		annotateIdentity(ctx, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.GetIdentity(c.Request.Context()).IsAdmin() {
			c.Abort()
			response.RespondError(c, http.StatusForbidden, apierr.CodeForbidden, errAdminOnly)
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
