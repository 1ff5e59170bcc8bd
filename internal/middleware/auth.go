package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/ciftlik/internal/auth"
)

const (
	authKey   = "auth"
	bearerPfx = "Bearer "
)

// SessionResolver turns a session token into the caller it belongs to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (auth.Context, error)
}

// RequireAuth rejects requests without a valid session. The token is read
// from the session cookie first and then from a bearer Authorization header.
func RequireAuth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Oturum açmanız gerekiyor")
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidSession) || errors.Is(err, auth.ErrExpiredSession) {
				abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Oturum geçersiz veya süresi dolmuş")
				return
			}
			if log := GetLogger(c); log != nil {
				log.Error("Failed to resolve session", err, nil)
			}
			abortJSON(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Beklenmeyen bir hata oluştu")
			return
		}

		c.Set(authKey, principal)
		if log := GetLogger(c); log != nil {
			c.Set(loggerKey, log.With(map[string]interface{}{"user_id": principal.UserID()}))
		}

		c.Next()
	}
}

// RequireAdmin allows only administrators. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetAuth(c)
		if principal == nil || !principal.IsAdmin() {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "Bu işlem için yetkiniz yok")
			return
		}
		c.Next()
	}
}

// GetAuth returns the authenticated caller, or nil outside RequireAuth.
func GetAuth(c *gin.Context) auth.Context {
	if v, exists := c.Get(authKey); exists {
		if principal, ok := v.(auth.Context); ok {
			return principal
		}
	}
	return nil
}

// SessionToken extracts the session token sent with the request.
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(auth.CookieName); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPfx) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPfx))
	}
	return ""
}
