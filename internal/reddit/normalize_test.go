package reddit

import (
	"testing"
)

func TestNormalizeThread(t *testing.T) {
	raw := RawThread{
		ID:          "abc",
		Subreddit:   "Atlanta",
		Title:       "Need a plumber",
		Selftext:    "Pipe burst under the sink",
		Author:      "op",
		URL:         "https://reddit.com/r/Atlanta/abc",
		CreatedUTC:  1700000000.0,
		Score:       12,
		NumComments: 3,
	}

	thread := NormalizeThread(raw)

	if thread.Source != "reddit" || thread.SourceThreadID != "abc" {
		t.Errorf("Expected reddit/abc identity, got %s/%s", thread.Source, thread.SourceThreadID)
	}
	if thread.CreatedUTC != 1700000000 {
		t.Errorf("Expected integer created_utc, got %d", thread.CreatedUTC)
	}
	if thread.LastContentUTC != thread.CreatedUTC {
		t.Errorf("Expected last_content_utc anchored to creation, got %d", thread.LastContentUTC)
	}
	if thread.IsDeleted || thread.IsRemoved {
		t.Error("Expected live thread flags unset")
	}
	if thread.Score != 12 || thread.NumCommentsReported != 3 {
		t.Errorf("Expected score and comment count carried, got %d/%d", thread.Score, thread.NumCommentsReported)
	}
}

func TestNormalizeThreadMarkers(t *testing.T) {
	tests := []struct {
		name        string
		selftext    string
		author      string
		wantDeleted bool
		wantRemoved bool
		wantAuthor  string
	}{
		{"deleted body", "[deleted]", "op", true, false, "op"},
		{"removed body", "[removed]", "op", false, true, "op"},
		{"deleted author", "hello", "[deleted]", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread := NormalizeThread(RawThread{ID: "x", Selftext: tt.selftext, Author: tt.author})
			if thread.IsDeleted != tt.wantDeleted {
				t.Errorf("Expected deleted=%v, got %v", tt.wantDeleted, thread.IsDeleted)
			}
			if thread.IsRemoved != tt.wantRemoved {
				t.Errorf("Expected removed=%v, got %v", tt.wantRemoved, thread.IsRemoved)
			}
			if thread.Author != tt.wantAuthor {
				t.Errorf("Expected author %q, got %q", tt.wantAuthor, thread.Author)
			}
		})
	}
}

func TestNormalizeThreadHTMLFallback(t *testing.T) {
	raw := RawThread{
		ID:           "abc",
		SelftextHTML: "<div><p>Pipe burst, <strong>need</strong> a plumber</p></div>",
	}

	thread := NormalizeThread(raw)
	if thread.Body != "Pipe burst, need a plumber" {
		t.Errorf("Expected stripped HTML body, got %q", thread.Body)
	}
}

func TestNormalizeComment(t *testing.T) {
	raw := RawComment{
		ID:         "c1",
		ParentID:   "t3_abc",
		Author:     "[deleted]",
		Body:       "[deleted]",
		CreatedUTC: 1700000100.0,
		Depth:      2,
		Permalink:  "/r/Atlanta/abc/c1",
	}

	comment := NormalizeComment(raw, 9)

	if comment.ThreadID != 9 {
		t.Errorf("Expected thread id 9, got %d", comment.ThreadID)
	}
	if comment.ParentSourceID != "t3_abc" {
		t.Errorf("Expected source-level parent kept, got %q", comment.ParentSourceID)
	}
	if comment.Author != "" {
		t.Errorf("Expected anonymized author, got %q", comment.Author)
	}
	if !comment.IsDeleted {
		t.Error("Expected deleted comment flagged")
	}
	if comment.Depth != 2 {
		t.Errorf("Expected depth carried, got %d", comment.Depth)
	}
}
