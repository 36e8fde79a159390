package models

import (
	"time"

	"github.com/google/uuid"
)

// Hit types recorded by the rule engine.
const (
	HitTypeKeyword  = "keyword"
	HitTypePhrase   = "phrase"
	HitTypeNegative = "negative"
)

// Match contexts for rule hits.
const (
	MatchContextTitle   = "title"
	MatchContextBody    = "body"
	MatchContextComment = "comment"
)

// RuleHit is an append-only evidence record from one rule pass. Hits are
// never updated and never deduplicated across runs.
type RuleHit struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	RunID     uuid.UUID `json:"run_id" db:"run_id" gorm:"type:uuid;index"`
	ThreadID  uint      `json:"thread_id" db:"thread_id" gorm:"not null;index:idx_rule_hits_thread_created,priority:1"`
	CommentID *uint     `json:"comment_id" db:"comment_id"` // nil for title/body hits

	HitType      string `json:"hit_type" db:"hit_type" gorm:"not null"`
	MatchedTerm  string `json:"matched_term" db:"matched_term" gorm:"not null"`
	MatchContext string `json:"match_context" db:"match_context" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index:idx_rule_hits_thread_created,priority:2"`
}

// TableName sets the table name for the RuleHit model
func (RuleHit) TableName() string {
	return "rule_hits"
}
