// Package cleanup purges locally stored copies of content that has been
// deleted or removed at the source, so the database never retains user
// content the platform no longer shows.
package cleanup

import (
	"fmt"
	"log"

	"lead-radar/internal/models"
	"lead-radar/internal/reddit"

	"gorm.io/gorm"
)

// Checker re-fetches a single thread or comment to see whether it still
// exists at the source.
type Checker interface {
	FetchThread(sourceThreadID string) (reddit.RawThread, error)
	FetchComment(sourceCommentID string) (reddit.RawComment, error)
}

// Service removes threads whose source content is gone.
type Service struct {
	db      *gorm.DB
	checker Checker
}

// NewService creates a cleanup service.
func NewService(db *gorm.DB, checker Checker) *Service {
	return &Service{db: db, checker: checker}
}

// Stats reports what one cleanup pass did.
type Stats struct {
	ThreadsChecked  int
	ThreadsPurged   int
	CommentsChecked int
	CommentsPurged  int
	Errors          int
}

// Run checks every thread and every comment not already marked deleted
// and hard-deletes the ones whose source content is gone. Purging a
// thread takes everything derived from it; a comment deleted at the
// source while its thread stays up is deleted individually. A per-item
// check failure is logged and skipped; the pass continues.
func (s *Service) Run() (Stats, error) {
	var stats Stats

	if err := s.checkThreads(&stats); err != nil {
		return stats, err
	}
	if err := s.checkComments(&stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Service) checkThreads(stats *Stats) error {
	var threads []models.Thread
	err := s.db.Where("is_deleted = ? AND is_removed = ?", false, false).
		Find(&threads).Error
	if err != nil {
		return fmt.Errorf("failed to list threads: %w", err)
	}

	for _, thread := range threads {
		stats.ThreadsChecked++

		raw, err := s.checker.FetchThread(thread.SourceThreadID)
		if err != nil {
			log.Printf("Cleanup check failed for thread %s: %v", thread.SourceThreadID, err)
			stats.Errors++
			continue
		}

		if !threadGone(raw) {
			continue
		}

		if err := s.purgeThread(thread.ID); err != nil {
			log.Printf("Failed to purge thread %s: %v", thread.SourceThreadID, err)
			stats.Errors++
			continue
		}
		log.Printf("Purged thread %s, content removed at source", thread.SourceThreadID)
		stats.ThreadsPurged++
	}
	return nil
}

// checkComments runs after the thread pass, so comments of purged threads
// are already gone and only individually deleted comments remain to find.
func (s *Service) checkComments(stats *Stats) error {
	var comments []models.Comment
	err := s.db.Where("is_deleted = ?", false).Find(&comments).Error
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	for _, comment := range comments {
		stats.CommentsChecked++

		raw, err := s.checker.FetchComment(comment.SourceCommentID)
		if err != nil {
			log.Printf("Cleanup check failed for comment %s: %v", comment.SourceCommentID, err)
			stats.Errors++
			continue
		}

		if !commentGone(raw) {
			continue
		}

		if err := s.db.Delete(&models.Comment{}, comment.ID).Error; err != nil {
			log.Printf("Failed to purge comment %s: %v", comment.SourceCommentID, err)
			stats.Errors++
			continue
		}
		log.Printf("Purged comment %s, content removed at source", comment.SourceCommentID)
		stats.CommentsPurged++
	}
	return nil
}

// threadGone reports whether the source shows the submission as deleted
// or removed.
func threadGone(raw reddit.RawThread) bool {
	if raw.Author == "" || raw.Author == "[deleted]" {
		return true
	}
	return raw.Selftext == "[deleted]" || raw.Selftext == "[removed]"
}

// commentGone reports whether the source shows the comment as deleted.
func commentGone(raw reddit.RawComment) bool {
	if raw.Author == "" || raw.Author == "[deleted]" {
		return true
	}
	return raw.Body == "[deleted]" || raw.Body == "[removed]"
}

// purgeThread hard-deletes a thread and every row derived from it.
func (s *Service) purgeThread(threadID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Comment{},
			&models.RuleHit{},
			&models.GenaiEval{},
			&models.DraftResponse{},
			&models.Detection{},
			&models.ReviewAction{},
			&models.ThreadState{},
		}
		for _, model := range dependents {
			if err := tx.Where("thread_id = ?", threadID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete dependents: %w", err)
			}
		}
		if err := tx.Delete(&models.Thread{}, threadID).Error; err != nil {
			return fmt.Errorf("failed to delete thread: %w", err)
		}
		return nil
	})
}
