package models

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation scopes.
const (
	EvalScopeThreadSeed = "thread_seed"
	EvalScopeDelta      = "delta"
)

// Evaluation statuses.
const (
	EvalStatusSuccess = "success"
	EvalStatusFailed  = "failed"
)

// GenaiEval is the append-only record of one classification call. Exactly
// one row is written per attempted gate pass; a retried call collapses into
// the final attempt's record.
type GenaiEval struct {
	ID       uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	RunID    uuid.UUID `json:"run_id" db:"run_id" gorm:"type:uuid;index"`
	ThreadID uint      `json:"thread_id" db:"thread_id" gorm:"not null;index:idx_genai_evals_thread_created,priority:1"`

	EvalScope    string `json:"eval_scope" db:"eval_scope" gorm:"not null"`
	DeltaFromUTC int64  `json:"delta_from_utc" db:"delta_from_utc"`
	DeltaToUTC   int64  `json:"delta_to_utc" db:"delta_to_utc"`

	Relevant    int    `json:"relevant" db:"relevant" gorm:"index"`
	ShortReason string `json:"short_reason" db:"short_reason"`

	Model         string `json:"model" db:"model"`
	PromptVersion string `json:"prompt_version" db:"prompt_version"`
	TokensIn      int    `json:"tokens_in" db:"tokens_in" gorm:"default:0"`
	TokensOut     int    `json:"tokens_out" db:"tokens_out" gorm:"default:0"`

	Status    string `json:"status" db:"status" gorm:"not null"`
	ErrorText string `json:"error_text" db:"error_text"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index:idx_genai_evals_thread_created,priority:2"`
}

// TableName sets the table name for the GenaiEval model
func (GenaiEval) TableName() string {
	return "genai_evals"
}
