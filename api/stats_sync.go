package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsSync recounts the ledger from the live bucket listing. The result
// overwrites the incremental counters, it never merges with them.
func (a *API) StatsSync(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	stats, err := a.Stats.Resync(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resync stats ledger", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, stats)
}
