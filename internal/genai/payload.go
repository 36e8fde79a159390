// Package genai wraps the external classification service: payload
// construction, the OpenAI-backed client, response validation, and the
// success/degraded outcome type used by the evaluation orchestrator.
package genai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lead-radar/internal/models"
	"lead-radar/internal/rules"
	"lead-radar/internal/settings"
)

// ThreadSeed is the thread-level context sent with every classification
// request.
type ThreadSeed struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Subreddit string `json:"subreddit"`
	URL       string `json:"url"`
}

// PayloadComment is one delta comment included in a classification request.
type PayloadComment struct {
	CommentID  string `json:"comment_id"`
	Author     string `json:"author"`
	Body       string `json:"body"`
	CreatedUTC int64  `json:"created_utc"`
}

// PayloadHit is one piece of rule evidence included in a classification
// request.
type PayloadHit struct {
	HitType      string `json:"hit_type"`
	MatchedTerm  string `json:"matched_term"`
	MatchContext string `json:"match_context"`
}

// Payload is the full request body for one classification call.
type Payload struct {
	BusinessContext settings.BusinessContext `json:"business_context"`
	ThreadSeed      ThreadSeed               `json:"thread_seed"`
	DeltaComments   []PayloadComment         `json:"delta_comments"`
	RuleEvidence    []PayloadHit             `json:"rule_evidence"`
}

// BuildPayload assembles the classification request for a thread, the
// selected delta comments, and this run's rule evidence.
func BuildPayload(thread models.Thread, deltaComments []models.Comment, hits []rules.Hit, business settings.BusinessContext) Payload {
	payload := Payload{
		BusinessContext: business,
		ThreadSeed: ThreadSeed{
			Title:     thread.Title,
			Body:      thread.Body,
			Subreddit: thread.Subreddit,
			URL:       thread.URL,
		},
		DeltaComments: make([]PayloadComment, 0, len(deltaComments)),
		RuleEvidence:  make([]PayloadHit, 0, len(hits)),
	}

	for _, comment := range deltaComments {
		payload.DeltaComments = append(payload.DeltaComments, PayloadComment{
			CommentID:  comment.SourceCommentID,
			Author:     comment.Author,
			Body:       comment.Body,
			CreatedUTC: comment.CreatedUTC,
		})
	}

	for _, hit := range hits {
		payload.RuleEvidence = append(payload.RuleEvidence, PayloadHit{
			HitType:      hit.HitType,
			MatchedTerm:  hit.MatchedTerm,
			MatchContext: hit.MatchContext,
		})
	}

	return payload
}

// DetectionItem is one validated detection from a classification response.
type DetectionItem struct {
	CommentID       string `json:"comment_id"`
	DetectionType   string `json:"detection_type"`
	EvidenceExcerpt string `json:"evidence_excerpt"`
}

// Result is a validated classification response.
type Result struct {
	Relevant       int             `json:"relevant"`
	ShortReason    string          `json:"short_reason"`
	DraftResponse  string          `json:"draft_response"`
	DetectionItems []DetectionItem `json:"detection_items"`
}

// rawResult mirrors the loose response shape before coercion.
type rawResult struct {
	Relevant       json.RawMessage   `json:"relevant"`
	ShortReason    string            `json:"short_reason"`
	DraftResponse  string            `json:"draft_response"`
	DetectionItems []json.RawMessage `json:"detection_items"`
}

// ParseResult validates and coerces a raw classification response.
// Relevant accepts bool, int, and string truthy tokens. A relevant result
// without a non-empty draft response is an invalid response and fails the
// call. Malformed detection items are silently dropped.
func ParseResult(content []byte) (Result, error) {
	var raw rawResult
	if err := json.Unmarshal(content, &raw); err != nil {
		return Result{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result := Result{
		Relevant:       coerceRelevant(raw.Relevant),
		ShortReason:    raw.ShortReason,
		DraftResponse:  raw.DraftResponse,
		DetectionItems: validateDetectionItems(raw.DetectionItems),
	}

	if result.Relevant == 1 && strings.TrimSpace(result.DraftResponse) == "" {
		return Result{}, fmt.Errorf("missing draft_response for relevant thread")
	}

	return result, nil
}

func coerceRelevant(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1
		}
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == 1 {
			return 1
		}
		return 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes":
			return 1
		}
	}
	return 0
}

// validateDetectionItems keeps only well-formed entries: both a detection
// type and an evidence excerpt must be present.
func validateDetectionItems(items []json.RawMessage) []DetectionItem {
	validated := make([]DetectionItem, 0, len(items))
	for _, raw := range items {
		var loose struct {
			CommentID       json.RawMessage `json:"comment_id"`
			DetectionType   string          `json:"detection_type"`
			EvidenceExcerpt string          `json:"evidence_excerpt"`
		}
		if err := json.Unmarshal(raw, &loose); err != nil {
			continue
		}
		if loose.DetectionType == "" || loose.EvidenceExcerpt == "" {
			continue
		}
		validated = append(validated, DetectionItem{
			CommentID:       coerceCommentID(loose.CommentID),
			DetectionType:   loose.DetectionType,
			EvidenceExcerpt: loose.EvidenceExcerpt,
		})
	}
	return validated
}

// coerceCommentID tolerates models returning comment ids as numbers or
// null rather than strings.
func coerceCommentID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(int64(n), 10)
	}
	return ""
}
