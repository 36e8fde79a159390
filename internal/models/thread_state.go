package models

import (
	"time"
)

// Tri-state geographic relevance values for ThreadState.InArea.
const (
	InAreaTrue    = "true"
	InAreaFalse   = "false"
	InAreaUnknown = "unknown"
)

// ThreadState is the durable lifecycle record for a thread, created lazily
// on first ingestion. Flagged is monotonic: the pipeline never clears it.
// Dismissed is terminal for the pipeline; only a human review action may
// clear dismissed or flagged.
type ThreadState struct {
	ThreadID uint `json:"thread_id" db:"thread_id" gorm:"primaryKey"`

	Watching       bool  `json:"watching" db:"watching" gorm:"default:false;index"`
	ActiveUntilUTC int64 `json:"active_until_utc" db:"active_until_utc" gorm:"index"`
	Closed         bool  `json:"closed" db:"closed" gorm:"default:false"`

	InArea             string  `json:"in_area" db:"in_area" gorm:"default:unknown"`
	LocationConfidence float64 `json:"location_confidence" db:"location_confidence" gorm:"default:0"`
	LocationEvidence   string  `json:"location_evidence" db:"location_evidence"`

	LastRuleCheckUTC   *int64 `json:"last_rule_check_utc" db:"last_rule_check_utc"`
	LastGenaiEvalUTC   *int64 `json:"last_genai_eval_utc" db:"last_genai_eval_utc"`
	LastSeenCommentUTC *int64 `json:"last_seen_comment_utc" db:"last_seen_comment_utc"`

	GenaiEvalCount int    `json:"genai_eval_count" db:"genai_eval_count" gorm:"default:0"`
	Flagged        bool   `json:"flagged" db:"flagged" gorm:"default:false;index:idx_thread_state_flags,priority:1"`
	FlaggedUTC     *int64 `json:"flagged_utc" db:"flagged_utc"`
	Dismissed      bool   `json:"dismissed" db:"dismissed" gorm:"default:false;index:idx_thread_state_flags,priority:2"`
	SnoozedUntil   *int64 `json:"snoozed_until" db:"snoozed_until"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the ThreadState model
func (ThreadState) TableName() string {
	return "thread_state"
}

// NewThreadState constructs the initial lifecycle record for a thread.
// The active window is anchored to the thread's creation time, not the
// time of first observation.
func NewThreadState(threadID uint, threadCreatedUTC int64, activeWindowDays int) *ThreadState {
	return &ThreadState{
		ThreadID:       threadID,
		Watching:       false,
		ActiveUntilUTC: threadCreatedUTC + int64(activeWindowDays)*86400,
		InArea:         InAreaUnknown,
	}
}
