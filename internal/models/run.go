package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Run statuses.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// Run records one ingestion execution and its aggregate counters. A row is
// created with status running before any thread is processed and finalized
// exactly once at the end of the run.
type Run struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Source string    `json:"source" db:"source"`

	Sources pq.StringArray `json:"sources" db:"sources" gorm:"type:text[]"` // subreddits covered by this run

	StartedUTC int64  `json:"started_utc" db:"started_utc" gorm:"index"`
	EndedUTC   *int64 `json:"ended_utc" db:"ended_utc"`
	Status     string `json:"status" db:"status" gorm:"not null"`

	ThreadsFetched  int `json:"threads_fetched" db:"threads_fetched" gorm:"default:0"`
	CommentsFetched int `json:"comments_fetched" db:"comments_fetched" gorm:"default:0"`
	ThreadsNew      int `json:"threads_new" db:"threads_new" gorm:"default:0"`
	ThreadsUpdated  int `json:"threads_updated" db:"threads_updated" gorm:"default:0"`
	ThreadsSkipped  int `json:"threads_skipped" db:"threads_skipped" gorm:"default:0"`
	RuleHits        int `json:"rule_hits" db:"rule_hits" gorm:"default:0"`
	GenaiCalls      int `json:"genai_calls" db:"genai_calls" gorm:"default:0"`
	ThreadsFlagged  int `json:"threads_flagged" db:"threads_flagged" gorm:"default:0"`

	ErrorSummary string `json:"error_summary" db:"error_summary"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Run model
func (Run) TableName() string {
	return "runs"
}
