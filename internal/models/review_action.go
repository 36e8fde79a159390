package models

import (
	"time"
)

// Review action types written by the human review surface.
const (
	ActionTypeDismiss   = "dismiss"
	ActionTypeSnooze    = "snooze"
	ActionTypeEditDraft = "edit_draft"
)

// ReviewAction is an append-only log of human actions taken from the
// review queue.
type ReviewAction struct {
	ID       uint `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ThreadID uint `json:"thread_id" db:"thread_id" gorm:"not null;index:idx_review_actions_thread_created,priority:1"`

	ActionType  string `json:"action_type" db:"action_type" gorm:"not null;index"`
	ActionValue string `json:"action_value" db:"action_value"`
	Actor       string `json:"actor" db:"actor"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index:idx_review_actions_thread_created,priority:2"`
}

// TableName sets the table name for the ReviewAction model
func (ReviewAction) TableName() string {
	return "review_actions"
}
