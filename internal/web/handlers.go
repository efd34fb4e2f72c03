package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxLogLimit = 500

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleRun triggers one full batch pass. ?force=true bypasses the per-user
// schedule gate.
func (s *Server) handleRun(c *gin.Context) {
	force := c.Query("force") == "true"

	stats, err := s.run(c.Request.Context(), force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"processed":   stats.Processed,
		"total_users": stats.TotalUsers,
	})
}

func (s *Server) handleLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > maxLogLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "limit must be between 1 and 500",
		})
		return
	}

	entries, err := s.logs.RecentRunLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(entries),
		"logs":    entries,
	})
}
