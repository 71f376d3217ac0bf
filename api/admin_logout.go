package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func (a *API) AdminLogout(c *gin.Context) {
	if token, err := c.Cookie("admin_token"); err == nil {
		a.Sessions.Revoke(token)
	}

	c.SetCookie("admin_token", "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
	c.SetCookie("logged_in", "", -1, "/", "", viper.GetBool("host.ssl.enabled"), false)
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}
