package handlers

import (
	"net/http"
	"strconv"

	"lead-radar/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// QueueHandler handles HTTP requests for the review queue
type QueueHandler struct {
	store *store.Service
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(db *gorm.DB) *QueueHandler {
	return &QueueHandler{store: store.NewService(db)}
}

// GetQueue handles GET /api/queue
func (h *QueueHandler) GetQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if limit > 200 {
		limit = 200
	}
	if limit < 1 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * limit

	items, err := h.store.ListFlaggedThreads(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve review queue",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetThreadDetail handles GET /api/queue/:id
func (h *QueueHandler) GetThreadDetail(c *gin.Context) {
	threadID, err := parseThreadID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	detail, err := h.store.GetThreadDetail(threadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve thread detail",
			"details": err.Error(),
		})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetRecentThreads handles GET /api/threads
func (h *QueueHandler) GetRecentThreads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}
	if limit < 1 {
		limit = 50
	}

	threads, err := h.store.ListRecentThreads(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve recent threads",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

// GetRecentRuns handles GET /api/runs
func (h *QueueHandler) GetRecentRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}

	runs, err := h.store.ListRecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve recent runs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// HealthCheck handles GET /health
func (h *QueueHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lead-radar",
	})
}

func parseThreadID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
