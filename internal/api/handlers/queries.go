package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/delvedns/delvedns/internal/api/models"
)

// maxQueryLimit caps the page size of /queries.
const maxQueryLimit = 1000

// Queries returns recently journaled queries, newest first. The
// optional ?limit= parameter selects the page size (default 100).
func (h *Handler) Queries(c *gin.Context) {
	j := h.GetJournal()
	if j == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "query journal is disabled"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		if n > maxQueryLimit {
			n = maxQueryLimit
		}
		limit = n
	}

	entries, err := j.Recent(c.Request.Context(), limit)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("journal read failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read query journal"})
		return
	}

	c.JSON(http.StatusOK, models.QueriesResponse{Count: len(entries), Queries: entries})
}
