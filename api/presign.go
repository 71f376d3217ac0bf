package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const contributorCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Presign validates the declared upload and answers with a write credential.
// The client PUTs its bytes straight to storage afterwards, the server never
// sees them.
func (a *API) Presign(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	filename := c.Query("filename")
	if filename == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No filename provided",
			"requestID": requestID,
		})
		return
	}

	contentType := c.Query("type")
	if contentType == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No content type provided",
			"requestID": requestID,
		})
		return
	}

	size, err := strconv.ParseInt(c.Query("size"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Size is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	contributor, err := c.Cookie("contributor_id")
	if err != nil || contributor == "" {
		contributor, err = gonanoid.Generate(contributorCharset, 16)
		if err == nil {
			c.SetCookie("contributor_id", contributor, 60*60*24*365, "/", "", viper.GetBool("host.ssl.enabled"), false)
		}
	}

	grant, code, err := a.Admission.Admit(c.Request.Context(), filename, contentType, size, contributor)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to issue upload credential", zap.Error(err), zap.String("requestID", requestID))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, grant)
}
