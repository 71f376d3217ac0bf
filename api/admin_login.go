package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Password string `json:"password"`
}

func (a *API) AdminLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(data.Password), []byte(viper.GetString("admin.password"))) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	token, err := a.Sessions.NewSession()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create admin session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	maxAge := viper.GetInt("admin.session_ttl")

	c.SetCookie("admin_token", token, maxAge, "/", "", viper.GetBool("host.ssl.enabled"), true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", viper.GetBool("host.ssl.enabled"), false)
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}
