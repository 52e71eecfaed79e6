package middleware

import (
	"net/http"
	"strings"

	"carrental/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles adalah middleware role-based access control.
// Harus dipasang setelah RequireAuth, yang mengisi "userRole" di context.
// Contoh:
//
//	g.POST("", RequireRoles(domain.RoleAdmin, domain.RoleStaff), handler)
func RequireRoles(allowedRoles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(string(r)))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "role tidak ditemukan pada context")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "role tidak diizinkan")
			return
		}
		c.Next()
	}
}
