// file: middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-facilities-admin/logger"
)

// AdminRequired lets through operators whose login marked them as admin.
// It runs after AuthRequired: a request without an operator answers 401,
// an operator without the admin flag answers 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := c.GetString(ContextUser)
		if operator == "" {
			logger.Warn.Printf("[AdminRequired] No operator for %s %s", c.Request.Method, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}

		if isAdmin, _ := sessions.Default(c).Get(SessionIsAdmin).(bool); !isAdmin {
			logger.Warn.Printf("[AdminRequired] Operator %s denied %s", operator, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		logger.Debug.Printf("[AdminRequired] Operator %s granted %s", operator, c.Request.URL.Path)
		c.Next()
	}
}
