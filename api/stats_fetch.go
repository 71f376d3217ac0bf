package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) StatsFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	stats, err := a.Stats.Fetch()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load stats ledger", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, stats)
}
