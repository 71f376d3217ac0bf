package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GalleryFetch returns the current listing. Failures upstream degrade to an
// empty listing inside the projector, so this can't answer anything but 200.
func (a *API) GalleryFetch(c *gin.Context) {
	items, count := a.Projector.Project(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": count,
	})
}
