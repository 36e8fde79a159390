package rules

import (
	"testing"

	"lead-radar/internal/models"
	"lead-radar/internal/settings"
)

func testSettings() settings.Settings {
	s := settings.Defaults()
	s.KeywordsInclude = []string{"plumber", "water heater"}
	s.KeywordsIntent = []string{"need", "recommend"}
	s.KeywordsNegative = []string{"DIY", "hiring"}
	return s
}

func TestEvaluateThread(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		body     string
		comments []string
		want     int
		positive bool
	}{
		{
			name:     "keyword and intent in title",
			title:    "Need a plumber for a burst pipe",
			want:     2,
			positive: true,
		},
		{
			name:     "keyword only is not positive",
			title:    "Plumber prices in this town are wild",
			want:     1,
			positive: false,
		},
		{
			name:     "intent only is not positive",
			title:    "Can anyone recommend a good bakery?",
			want:     1,
			positive: false,
		},
		{
			name:     "negative term vetoes everything",
			title:    "Need a plumber",
			body:     "Actually thinking of going the DIY route",
			want:     3,
			positive: false,
		},
		{
			name:     "matching is case insensitive",
			title:    "NEED A PLUMBER ASAP",
			want:     2,
			positive: true,
		},
		{
			name:     "substring matches mid-word",
			title:    "My plumbers bill was huge, need advice",
			want:     2,
			positive: true,
		},
		{
			name:     "keyword in title, intent in comment",
			title:    "Water heater died this morning",
			comments: []string{"I'd recommend calling someone today"},
			want:     2,
			positive: true,
		},
		{
			name:     "negative in a comment vetoes the thread",
			title:    "Need a plumber",
			comments: []string{"Every plumber around here is hiring right now"},
			want:     4, // need, plumber, plumber (comment), hiring
			positive: false,
		},
		{
			name:  "no hits at all",
			title: "Best tacos in town?",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread := models.Thread{Title: tt.title, Body: tt.body}
			var comments []models.Comment
			for i, body := range tt.comments {
				comments = append(comments, models.Comment{ID: uint(i + 1), Body: body})
			}

			hits := EvaluateThread(thread, comments, testSettings())
			if len(hits) != tt.want {
				t.Errorf("Expected %d hits, got %d: %+v", tt.want, len(hits), hits)
			}
			if got := IsPositive(hits); got != tt.positive {
				t.Errorf("Expected positive=%v, got %v", tt.positive, got)
			}
		})
	}
}

func TestEvaluateThreadHitContexts(t *testing.T) {
	thread := models.Thread{
		Title: "Need a plumber",
		Body:  "water heater is leaking",
	}
	comments := []models.Comment{{ID: 7, Body: "I can recommend someone"}}

	hits := EvaluateThread(thread, comments, testSettings())

	byContext := map[string]int{}
	for _, hit := range hits {
		byContext[hit.MatchContext]++
		if hit.MatchContext == models.MatchContextComment && hit.CommentID != 7 {
			t.Errorf("Expected comment hit to carry comment id 7, got %d", hit.CommentID)
		}
		if hit.MatchContext != models.MatchContextComment && hit.CommentID != 0 {
			t.Errorf("Expected thread-level hit to carry comment id 0, got %d", hit.CommentID)
		}
	}

	if byContext[models.MatchContextTitle] != 2 {
		t.Errorf("Expected 2 title hits, got %d", byContext[models.MatchContextTitle])
	}
	if byContext[models.MatchContextBody] != 1 {
		t.Errorf("Expected 1 body hit, got %d", byContext[models.MatchContextBody])
	}
	if byContext[models.MatchContextComment] != 1 {
		t.Errorf("Expected 1 comment hit, got %d", byContext[models.MatchContextComment])
	}
}

func TestEvaluateCommentOnly(t *testing.T) {
	comment := models.Comment{ID: 3, Body: "You NEED to call a plumber, not DIY this"}
	hits := EvaluateComment(comment, testSettings())

	if len(hits) != 3 {
		t.Fatalf("Expected 3 hits, got %d", len(hits))
	}
	// A negative hit inside the delta still vetoes the pass.
	if IsPositive(hits) {
		t.Error("Expected negative hit to veto positivity")
	}
}

func TestIsPositiveEmpty(t *testing.T) {
	if IsPositive(nil) {
		t.Error("Expected no hits to be non-positive")
	}
}
