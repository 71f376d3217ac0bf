package api

import (
	"net/http"

	"bitwise74/gallery-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminDelete removes an object by key. Success only means the object is gone
// now, not that it existed before. Whether it's really absent must come from
// a fresh listing, not from this response.
func (a *API) AdminDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := c.Query("key")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No object key provided",
			"requestID": requestID,
		})
		return
	}

	err := a.Store.DeleteObject(c.Request.Context(), key)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete object", zap.String("key", key), zap.Error(err))
		return
	}

	// Keep the ledger consistent when it's the gallery source. Best effort,
	// a failed row delete only means a resync will be off until the next one.
	if a.DB != nil {
		err = a.DB.
			Where("key = ?", key).
			Delete(model.Link{}).
			Error
		if err != nil {
			zap.L().Error("Failed to delete ledger link", zap.String("key", key), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}
