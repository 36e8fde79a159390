package handlers

import (
	"net/http"

	"lead-radar/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReviewHandler handles human review actions on queue threads
type ReviewHandler struct {
	store *store.Service
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{store: store.NewService(db)}
}

// SaveDraft handles POST /api/queue/:id/draft
func (h *ReviewHandler) SaveDraft(c *gin.Context) {
	threadID, err := parseThreadID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	var req struct {
		DraftText string `json:"draft_text" binding:"required"`
		Actor     string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	found, err := h.store.SaveEditedDraft(threadID, req.DraftText, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save draft",
			"details": err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft saved"})
}

// Dismiss handles POST /api/queue/:id/dismiss
func (h *ReviewHandler) Dismiss(c *gin.Context) {
	threadID, err := parseThreadID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	var req struct {
		Actor string `json:"actor"`
	}
	_ = c.ShouldBindJSON(&req)

	found, err := h.store.DismissThread(threadID, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to dismiss thread",
			"details": err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread dismissed"})
}

// Snooze handles POST /api/queue/:id/snooze
func (h *ReviewHandler) Snooze(c *gin.Context) {
	threadID, err := parseThreadID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	var req struct {
		UntilUTC int64  `json:"until_utc" binding:"required"`
		Actor    string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	found, err := h.store.SnoozeThread(threadID, req.UntilUTC, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to snooze thread",
			"details": err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread snoozed"})
}
