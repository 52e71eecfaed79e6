package middleware

import (
	"net/http"
	"strings"

	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenParser is satisfied by services.AuthService.
type TokenParser interface {
	ParseToken(raw string) (services.Claims, error)
}

type TokenParserFunc func(raw string) (services.Claims, error)

func (f TokenParserFunc) ParseToken(raw string) (services.Claims, error) { return f(raw) }

// RequireAuth validates the bearer token and puts userID and userRole on
// the context for RequireRoles and the handlers.
func RequireAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "token tidak ditemukan")
			return
		}
		claims, err := p.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, string(claims.Role))
		c.Next()
	}
}

// GetUserID returns the authenticated user id, 0 when absent.
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
