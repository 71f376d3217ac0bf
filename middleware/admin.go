package middleware

import (
	"net/http"

	"bitwise74/gallery-api/service"

	"github.com/gin-gonic/gin"
)

// NewAdminMiddleware guards endpoints behind an active admin session. The
// session set is authoritative, a syntactically valid cookie that was logged
// out or expired is rejected.
func NewAdminMiddleware(s *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie("admin_token")
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Admin session required",
				"requestID": requestID,
			})
			return
		}

		if !s.Validate(tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session expired or revoked",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
