package store

import (
	"errors"
	"fmt"

	"lead-radar/internal/models"

	"gorm.io/gorm"
)

// SaveEditedDraft appends a human-edited draft as a new version for the
// thread. Prior drafts are never mutated. Returns false when the thread
// does not exist.
func (s *Service) SaveEditedDraft(threadID uint, draftText, actor string) (bool, error) {
	var thread models.Thread
	err := s.db.First(&thread, threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load thread %d: %w", threadID, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var latest models.DraftResponse
		version := 1
		var evalID *uint
		err := tx.Where("thread_id = ?", threadID).
			Order("draft_version DESC").
			First(&latest).Error
		if err == nil {
			version = latest.DraftVersion + 1
			evalID = latest.GenaiEvalID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up latest draft: %w", err)
		}

		draft := models.DraftResponse{
			ThreadID:     threadID,
			GenaiEvalID:  evalID,
			DraftText:    draftText,
			DraftVersion: version,
			Status:       models.DraftStatusEdited,
		}
		if err := tx.Create(&draft).Error; err != nil {
			return fmt.Errorf("failed to insert edited draft: %w", err)
		}

		action := models.ReviewAction{
			ThreadID:   threadID,
			ActionType: models.ActionTypeEditDraft,
			Actor:      actor,
		}
		if err := tx.Create(&action).Error; err != nil {
			return fmt.Errorf("failed to record review action: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DismissThread marks a thread dismissed, removing it from the queue and
// from all future pipeline passes. Only a human action does this.
func (s *Service) DismissThread(threadID uint, actor string) (bool, error) {
	return s.reviewStateChange(threadID, actor, models.ActionTypeDismiss, "", func(state *models.ThreadState) {
		state.Dismissed = true
	})
}

// SnoozeThread suppresses classification for a thread until the given
// time.
func (s *Service) SnoozeThread(threadID uint, untilUTC int64, actor string) (bool, error) {
	value := fmt.Sprintf("%d", untilUTC)
	return s.reviewStateChange(threadID, actor, models.ActionTypeSnooze, value, func(state *models.ThreadState) {
		state.SnoozedUntil = &untilUTC
	})
}

func (s *Service) reviewStateChange(threadID uint, actor, actionType, actionValue string, mutate func(*models.ThreadState)) (bool, error) {
	var state models.ThreadState
	err := s.db.First(&state, "thread_id = ?", threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load thread state for %d: %w", threadID, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		mutate(&state)
		if err := tx.Save(&state).Error; err != nil {
			return fmt.Errorf("failed to update thread state: %w", err)
		}

		action := models.ReviewAction{
			ThreadID:    threadID,
			ActionType:  actionType,
			ActionValue: actionValue,
			Actor:       actor,
		}
		if err := tx.Create(&action).Error; err != nil {
			return fmt.Errorf("failed to record review action: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
