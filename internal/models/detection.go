package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Detection is deduplicated evidence of a specific signal (for example a
// competitor mention) tied to a thread and optionally a comment. Rows are
// insert-if-absent and never updated. CommentID 0 means the evidence could
// not be tied to a comment; such rows are deduplicated by a content hash of
// the thread's source id and the evidence text instead.
type Detection struct {
	ID        uint `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ThreadID  uint `json:"thread_id" db:"thread_id" gorm:"not null;uniqueIndex:ux_detections_dedup,priority:1;index"`
	CommentID uint `json:"comment_id" db:"comment_id" gorm:"default:0;uniqueIndex:ux_detections_dedup,priority:2"`

	DetectionType string `json:"detection_type" db:"detection_type" gorm:"not null;uniqueIndex:ux_detections_dedup,priority:3"`
	EvidenceText  string `json:"evidence_text" db:"evidence_text" gorm:"type:text"`
	SourceHash    string `json:"source_hash" db:"source_hash" gorm:"uniqueIndex:ux_detections_dedup,priority:4"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for the Detection model
func (Detection) TableName() string {
	return "detections"
}

// HashDetection derives the dedup hash for a thread-level detection.
func HashDetection(threadSourceID, evidenceText string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", threadSourceID, evidenceText)))
	return hex.EncodeToString(sum[:])
}
