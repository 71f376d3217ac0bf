package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) NotesFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if a.Notes == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Notes service not configured",
			"requestID": requestID,
		})
		return
	}

	body, code, err := a.Notes.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch notes", zap.Error(err))
		return
	}

	c.Data(code, "application/json", body)
}
