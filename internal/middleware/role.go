package middleware

import (
	"net/http"

	"interventions/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures the authenticated caller holds one of the given
// roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		if userRole == "admin" {
			c.Next()
			return
		}
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
