// Package ingest runs one ingestion execution: it records the run in the
// ledger, pulls threads and comments from the collector, upserts them
// idempotently, creates lifecycle state for new threads, and hands every
// thread to the evaluator. The pipeline is a single-threaded synchronous
// batch job; threads are processed sequentially.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lead-radar/internal/evaluator"
	"lead-radar/internal/genai"
	"lead-radar/internal/models"
	"lead-radar/internal/reddit"
	"lead-radar/internal/settings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listingLimit is the per-subreddit fetch size for one run.
const listingLimit = 25

// Collector is the social-media data source consumed by a run.
type Collector interface {
	FetchThreads(subreddits []string, limit int) ([]reddit.RawThread, error)
	FetchComments(thread reddit.RawThread) ([]reddit.RawComment, error)
}

// Service executes ingestion runs.
type Service struct {
	db         *gorm.DB
	collector  Collector
	classifier genai.Classifier
}

// NewService creates an ingestion service. A nil classifier skips the
// classification stage; such runs finish with status partial.
func NewService(db *gorm.DB, collector Collector, classifier genai.Classifier) *Service {
	return &Service{db: db, collector: collector, classifier: classifier}
}

// Run performs one full ingestion run and returns the finalized ledger
// row. The Run row is created with status running before any thread is
// processed and finalized exactly once; an unrecoverable error finalizes
// it as failed and leaves already-committed per-thread state intact. The
// returned row is non-nil even when the ledger insert itself fails, so
// callers can always report the run id.
func (s *Service) Run(ctx context.Context) (*models.Run, error) {
	cfg := settings.Load(s.db)

	run := &models.Run{
		ID:         uuid.New(),
		Source:     "reddit",
		Sources:    cfg.Subreddits,
		StartedUTC: time.Now().Unix(),
		Status:     models.RunStatusRunning,
	}
	if err := s.db.Create(run).Error; err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorSummary = err.Error()
		return run, fmt.Errorf("failed to create run record: %w", err)
	}

	if err := s.execute(ctx, run, cfg); err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorSummary = err.Error()
		s.finalize(run)
		return run, err
	}

	s.finalize(run)
	log.Printf("Run %s finished: %s (%d threads, %d comments, %d rule hits, %d genai calls, %d flagged)",
		run.ID, run.Status, run.ThreadsFetched, run.CommentsFetched, run.RuleHits, run.GenaiCalls, run.ThreadsFlagged)
	return run, nil
}

func (s *Service) execute(ctx context.Context, run *models.Run, cfg settings.Settings) error {
	rawThreads, err := s.collector.FetchThreads(cfg.Subreddits, listingLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch threads: %w", err)
	}

	evalService := evaluator.NewService(s.db, s.classifier)

	for _, rawThread := range rawThreads {
		run.ThreadsFetched++

		thread, isNew, err := s.upsertThread(rawThread)
		if err != nil {
			return err
		}
		if isNew {
			run.ThreadsNew++
		} else {
			run.ThreadsUpdated++
		}

		if err := s.ensureThreadState(thread, cfg.ActiveWindowDays); err != nil {
			return err
		}

		// Collector failures on a single thread are recorded and skipped;
		// the run continues and finishes partial.
		rawComments, err := s.collector.FetchComments(rawThread)
		if err != nil {
			log.Printf("Skipping thread %s, comment fetch failed: %v", rawThread.ID, err)
			run.ThreadsSkipped++
			continue
		}

		fetched, err := s.upsertComments(thread.ID, rawComments)
		if err != nil {
			return err
		}
		run.CommentsFetched += fetched

		state, comments, err := s.loadThreadContext(thread.ID)
		if err != nil {
			return err
		}

		stats, err := evalService.ProcessThread(ctx, run.ID, thread, state, comments, cfg, time.Now().Unix())
		if err != nil {
			return err
		}
		run.RuleHits += stats.RuleHits
		run.GenaiCalls += stats.GenaiCalls
		if stats.NewlyFlagged {
			run.ThreadsFlagged++
		}
	}

	switch {
	case s.classifier == nil:
		// Ingestion and rule evaluation ran, classification did not.
		run.Status = models.RunStatusPartial
	case run.ThreadsSkipped > 0:
		run.Status = models.RunStatusPartial
	default:
		run.Status = models.RunStatusSuccess
	}
	return nil
}

// upsertThread inserts or refreshes a thread row on its
// (source, source_thread_id) identity and reports whether it was new.
func (s *Service) upsertThread(raw reddit.RawThread) (models.Thread, bool, error) {
	thread := reddit.NormalizeThread(raw)

	var existing models.Thread
	err := s.db.Where("source = ? AND source_thread_id = ?", thread.Source, thread.SourceThreadID).
		First(&existing).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)

	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "source_thread_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"url", "subreddit", "title", "body", "author",
			"last_seen_utc", "last_content_utc",
			"is_deleted", "is_removed", "score", "num_comments_reported",
			"updated_at",
		}),
	}).Create(&thread).Error
	if err != nil {
		return models.Thread{}, false, fmt.Errorf("failed to upsert thread %s: %w", thread.SourceThreadID, err)
	}

	// Re-read to get the stable internal key regardless of conflict path.
	var stored models.Thread
	err = s.db.Where("source = ? AND source_thread_id = ?", thread.Source, thread.SourceThreadID).
		First(&stored).Error
	if err != nil {
		return models.Thread{}, false, fmt.Errorf("failed to load upserted thread %s: %w", thread.SourceThreadID, err)
	}
	return stored, isNew, nil
}

// ensureThreadState lazily creates the lifecycle record on first
// ingestion. Existing state is never touched here.
func (s *Service) ensureThreadState(thread models.Thread, activeWindowDays int) error {
	state := models.NewThreadState(thread.ID, thread.CreatedUTC, activeWindowDays)
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}},
		DoNothing: true,
	}).Create(state).Error
	if err != nil {
		return fmt.Errorf("failed to ensure thread state for %d: %w", thread.ID, err)
	}
	return nil
}

func (s *Service) upsertComments(threadID uint, rawComments []reddit.RawComment) (int, error) {
	if len(rawComments) == 0 {
		return 0, nil
	}

	for _, raw := range rawComments {
		comment := reddit.NormalizeComment(raw, threadID)
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source"}, {Name: "source_comment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"thread_id", "parent_source_id", "author", "body",
				"last_seen_utc", "is_deleted", "depth", "permalink",
				"updated_at",
			}),
		}).Create(&comment).Error
		if err != nil {
			return 0, fmt.Errorf("failed to upsert comment %s: %w", comment.SourceCommentID, err)
		}
	}
	return len(rawComments), nil
}

func (s *Service) loadThreadContext(threadID uint) (*models.ThreadState, []models.Comment, error) {
	var state models.ThreadState
	if err := s.db.First(&state, "thread_id = ?", threadID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load thread state for %d: %w", threadID, err)
	}

	var comments []models.Comment
	err := s.db.Where("thread_id = ?", threadID).
		Order("created_utc ASC").
		Find(&comments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load comments for %d: %w", threadID, err)
	}

	return &state, comments, nil
}

// finalize writes the run's terminal status and counters exactly once.
func (s *Service) finalize(run *models.Run) {
	ended := time.Now().Unix()
	run.EndedUTC = &ended
	if err := s.db.Save(run).Error; err != nil {
		log.Printf("Failed to finalize run %s: %v", run.ID, err)
	}
}
