package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) NotesDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if a.Notes == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Notes service not configured",
			"requestID": requestID,
		})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No note ID provided",
			"requestID": requestID,
		})
		return
	}

	body, code, err := a.Notes.Delete(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete note", zap.String("id", id), zap.Error(err))
		return
	}

	if len(body) == 0 {
		c.Status(code)
		return
	}

	c.Data(code, "application/json", body)
}
