// Package store exposes the read and write accessors consumed by the
// review UI: the flagged queue, thread detail, recent threads and runs,
// and the append-only human actions (draft edits, dismiss, snooze).
package store

import (
	"errors"
	"fmt"

	"lead-radar/internal/models"

	"gorm.io/gorm"
)

// Service handles review-surface queries.
type Service struct {
	db *gorm.DB
}

// NewService creates a store service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// QueueItem is one row of the review queue.
type QueueItem struct {
	Thread models.Thread      `json:"thread"`
	State  models.ThreadState `json:"state"`
}

// ListFlaggedThreads returns the review queue: flagged, not dismissed,
// newest flag first, falling back to last content time then creation
// time.
func (s *Service) ListFlaggedThreads(limit, offset int) ([]QueueItem, error) {
	var threads []models.Thread
	err := s.db.
		Joins("JOIN thread_state ON thread_state.thread_id = threads.id").
		Where("thread_state.flagged = ? AND thread_state.dismissed = ?", true, false).
		Order("COALESCE(thread_state.flagged_utc, threads.last_content_utc, threads.created_utc) DESC").
		Limit(limit).
		Offset(offset).
		Preload("State").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged threads: %w", err)
	}

	items := make([]QueueItem, 0, len(threads))
	for _, thread := range threads {
		item := QueueItem{Thread: thread}
		if thread.State != nil {
			item.State = *thread.State
		}
		item.Thread.State = nil
		items = append(items, item)
	}
	return items, nil
}

// ThreadDetail is everything the review UI shows for one thread.
type ThreadDetail struct {
	Thread      models.Thread         `json:"thread"`
	State       *models.ThreadState   `json:"state"`
	Comments    []models.Comment      `json:"comments"`
	LatestDraft *models.DraftResponse `json:"latest_draft"`
	RuleHits    []models.RuleHit      `json:"rule_hits"`
	Detections  []models.Detection    `json:"detections"`
}

// GetThreadDetail returns the full review view of a thread, or nil when
// the thread does not exist.
func (s *Service) GetThreadDetail(threadID uint) (*ThreadDetail, error) {
	var thread models.Thread
	err := s.db.First(&thread, threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load thread %d: %w", threadID, err)
	}

	detail := &ThreadDetail{Thread: thread}

	var state models.ThreadState
	if err := s.db.First(&state, "thread_id = ?", threadID).Error; err == nil {
		detail.State = &state
	}

	err = s.db.Where("thread_id = ?", threadID).
		Order("created_utc ASC").
		Find(&detail.Comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for %d: %w", threadID, err)
	}

	detail.LatestDraft, err = s.latestDraft(threadID)
	if err != nil {
		return nil, err
	}

	err = s.db.Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Find(&detail.RuleHits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rule hits for %d: %w", threadID, err)
	}

	err = s.db.Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Find(&detail.Detections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load detections for %d: %w", threadID, err)
	}

	return detail, nil
}

// ListRecentThreads returns the most recently active threads with their
// state when present.
func (s *Service) ListRecentThreads(limit int) ([]models.Thread, error) {
	var threads []models.Thread
	err := s.db.
		Order("COALESCE(last_content_utc, created_utc) DESC").
		Limit(limit).
		Preload("State").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent threads: %w", err)
	}
	return threads, nil
}

func (s *Service) latestDraft(threadID uint) (*models.DraftResponse, error) {
	var draft models.DraftResponse
	err := s.db.Where("thread_id = ?", threadID).
		Order("updated_at DESC, created_at DESC, id DESC").
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest draft for %d: %w", threadID, err)
	}
	return &draft, nil
}
