package middleware

import (
	"crypto/subtle"
	"net/http"

	"bitwise74/gallery-api/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// NewUploadGateMiddleware guards write operations behind the shared upload
// password when one is configured. An active admin session passes too. With no
// password set the gallery accepts uploads from anyone.
func NewUploadGateMiddleware(s *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		passwd := viper.GetString("upload.password")
		if passwd == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-Upload-Key")
		if key == "" {
			key, _ = c.Cookie("upload_key")
		}

		if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(passwd)) == 1 {
			c.Next()
			return
		}

		if tokenStr, err := c.Cookie("admin_token"); err == nil && s.Validate(tokenStr) {
			c.Next()
			return
		}

		requestID := c.MustGet("requestID").(string)

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Upload password required",
			"requestID": requestID,
		})
	}
}
