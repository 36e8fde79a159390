package models

import (
	"time"
)

// Comment represents a single comment on a Thread. Identity is
// (source, source_comment_id). Parent linkage stays at the source level
// (parent_source_id) and is never normalized to internal keys.
type Comment struct {
	ID              uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ThreadID        uint   `json:"thread_id" db:"thread_id" gorm:"not null;index:idx_comments_thread_created,priority:1"`
	Source          string `json:"source" db:"source" gorm:"not null;uniqueIndex:ux_comments_source_id,priority:1"`
	SourceCommentID string `json:"source_comment_id" db:"source_comment_id" gorm:"not null;uniqueIndex:ux_comments_source_id,priority:2"`
	ParentSourceID  string `json:"parent_source_id" db:"parent_source_id"`

	Author string `json:"author" db:"author"`
	Body   string `json:"body" db:"body" gorm:"type:text"`

	CreatedUTC  int64 `json:"created_utc" db:"created_utc" gorm:"index:idx_comments_thread_created,priority:2"`
	LastSeenUTC int64 `json:"last_seen_utc" db:"last_seen_utc"`

	IsDeleted bool   `json:"is_deleted" db:"is_deleted" gorm:"default:false"`
	Depth     int    `json:"depth" db:"depth" gorm:"default:0"`
	Permalink string `json:"permalink" db:"permalink"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}
