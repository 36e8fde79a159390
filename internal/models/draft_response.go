package models

import (
	"time"
)

// Draft statuses.
const (
	DraftStatusSuggested = "suggested"
	DraftStatusEdited    = "edited"
)

// DraftResponse is a versioned suggestion text for a thread. Every insert,
// machine-suggested or human-edited, takes the next version for its thread;
// prior rows are never mutated.
type DraftResponse struct {
	ID          uint  `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ThreadID    uint  `json:"thread_id" db:"thread_id" gorm:"not null;index:idx_drafts_thread_updated,priority:1"`
	GenaiEvalID *uint `json:"genai_eval_id" db:"genai_eval_id"`

	DraftText    string `json:"draft_text" db:"draft_text" gorm:"type:text"`
	DraftVersion int    `json:"draft_version" db:"draft_version" gorm:"default:1"`
	Status       string `json:"status" db:"status" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime;index:idx_drafts_thread_updated,priority:2"`
}

// TableName sets the table name for the DraftResponse model
func (DraftResponse) TableName() string {
	return "draft_responses"
}
