package models

import (
	"time"
)

// Thread represents one social-media post observed by the collector.
// Identity is (source, source_thread_id); content fields are refreshed on
// every re-observation.
type Thread struct {
	ID             uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Source         string `json:"source" db:"source" gorm:"not null;uniqueIndex:ux_threads_source_id,priority:1"`
	SourceThreadID string `json:"source_thread_id" db:"source_thread_id" gorm:"not null;uniqueIndex:ux_threads_source_id,priority:2"`

	URL       string `json:"url" db:"url"`
	Subreddit string `json:"subreddit" db:"subreddit" gorm:"index"`
	Title     string `json:"title" db:"title"`
	Body      string `json:"body" db:"body" gorm:"type:text"`
	Author    string `json:"author" db:"author"` // empty when the source anonymized it

	// Source-side timestamps, unix seconds
	CreatedUTC     int64 `json:"created_utc" db:"created_utc" gorm:"index"`
	LastSeenUTC    int64 `json:"last_seen_utc" db:"last_seen_utc"`
	LastContentUTC int64 `json:"last_content_utc" db:"last_content_utc" gorm:"index"`

	IsDeleted           bool `json:"is_deleted" db:"is_deleted" gorm:"default:false"`
	IsRemoved           bool `json:"is_removed" db:"is_removed" gorm:"default:false"`
	Score               int  `json:"score" db:"score" gorm:"default:0"`
	NumCommentsReported int  `json:"num_comments_reported" db:"num_comments_reported" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Comments []Comment    `json:"comments,omitempty" gorm:"foreignKey:ThreadID"`
	State    *ThreadState `json:"state,omitempty" gorm:"foreignKey:ThreadID"`
}

// TableName sets the table name for the Thread model
func (Thread) TableName() string {
	return "threads"
}
