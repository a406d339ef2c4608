package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	jwtpkg "github.com/zivana-montessori/core/internal/pkg/jwt"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	tokenCookie      = "zivana_token"
)

// SessionVerifier checks a bearer token against the live admin sessions.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*jwtpkg.Claims, error)
	Touch(ctx context.Context, userID, sessionID string)
}

// Auth rejects requests without a valid admin session.
func Auth(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, sessions) {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// OptionalAuth marks the request as admin when a valid token is present but
// lets anonymous requests through.
func OptionalAuth(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, sessions)
		c.Next()
	}
}

func authenticate(c *gin.Context, sessions SessionVerifier) bool {
	token := ExtractToken(c)
	if token == "" {
		return false
	}
	claims, err := sessions.Verify(c.Request.Context(), token)
	if err != nil {
		return false
	}
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeySID, claims.SessionID)
	sessions.Touch(c.Request.Context(), claims.UserID, claims.SessionID)
	return true
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySID)
}

// IsAuthenticated reports whether an earlier middleware accepted a token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// ExtractToken reads the token from the Authorization header, falling back
// to the dashboard cookie.
func ExtractToken(c *gin.Context) string {
	if token := NormalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if raw, err := c.Cookie(tokenCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
