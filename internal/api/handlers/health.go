package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/delvedns/delvedns/internal/api/models"
)

// Health reports server liveness. The journal, when enabled, is pinged
// so a wedged database surfaces here instead of in silently dropped
// journal writes.
func (h *Handler) Health(c *gin.Context) {
	if j := h.GetJournal(); j != nil {
		if err := j.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.StatusResponse{Status: "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}
