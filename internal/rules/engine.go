// Package rules implements the keyword pre-filter and geographic-relevance
// inference that run before any classification call.
package rules

import (
	"strings"

	"lead-radar/internal/models"
	"lead-radar/internal/settings"
)

// Hit is one typed match produced by a rule pass. CommentID is 0 for
// title/body hits.
type Hit struct {
	HitType      string
	MatchedTerm  string
	MatchContext string
	CommentID    uint
}

// normalizeTerms lowercases and trims the configured terms, dropping
// empties. Matching is substring containment against case-folded text, so
// hits can occur mid-word.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}

func findTerms(text string, terms []string) []string {
	if text == "" {
		return nil
	}
	haystack := strings.ToLower(text)
	var matches []string
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matches = append(matches, term)
		}
	}
	return matches
}

func buildHits(terms []string, hitType, context string, commentID uint) []Hit {
	hits := make([]Hit, 0, len(terms))
	for _, term := range terms {
		hits = append(hits, Hit{
			HitType:      hitType,
			MatchedTerm:  term,
			MatchContext: context,
			CommentID:    commentID,
		})
	}
	return hits
}

// EvaluateComment scans a single comment body against the configured
// keyword lists.
func EvaluateComment(comment models.Comment, cfg settings.Settings) []Hit {
	var hits []Hit
	body := comment.Body

	hits = append(hits, buildHits(findTerms(body, normalizeTerms(cfg.KeywordsInclude)), models.HitTypeKeyword, models.MatchContextComment, comment.ID)...)
	hits = append(hits, buildHits(findTerms(body, normalizeTerms(cfg.KeywordsIntent)), models.HitTypePhrase, models.MatchContextComment, comment.ID)...)
	hits = append(hits, buildHits(findTerms(body, normalizeTerms(cfg.KeywordsNegative)), models.HitTypeNegative, models.MatchContextComment, comment.ID)...)
	return hits
}

// EvaluateThread scans title, body, and every supplied comment.
func EvaluateThread(thread models.Thread, comments []models.Comment, cfg settings.Settings) []Hit {
	serviceTerms := normalizeTerms(cfg.KeywordsInclude)
	intentTerms := normalizeTerms(cfg.KeywordsIntent)
	negativeTerms := normalizeTerms(cfg.KeywordsNegative)

	var hits []Hit
	hits = append(hits, buildHits(findTerms(thread.Title, serviceTerms), models.HitTypeKeyword, models.MatchContextTitle, 0)...)
	hits = append(hits, buildHits(findTerms(thread.Title, intentTerms), models.HitTypePhrase, models.MatchContextTitle, 0)...)
	hits = append(hits, buildHits(findTerms(thread.Title, negativeTerms), models.HitTypeNegative, models.MatchContextTitle, 0)...)

	hits = append(hits, buildHits(findTerms(thread.Body, serviceTerms), models.HitTypeKeyword, models.MatchContextBody, 0)...)
	hits = append(hits, buildHits(findTerms(thread.Body, intentTerms), models.HitTypePhrase, models.MatchContextBody, 0)...)
	hits = append(hits, buildHits(findTerms(thread.Body, negativeTerms), models.HitTypeNegative, models.MatchContextBody, 0)...)

	for _, comment := range comments {
		hits = append(hits, EvaluateComment(comment, cfg)...)
	}

	return hits
}

// IsPositive reports whether a set of hits constitutes a positive rule
// hit: at least one keyword, at least one phrase, and no negative hit
// anywhere in the scanned content.
func IsPositive(hits []Hit) bool {
	var hasKeyword, hasPhrase bool
	for _, hit := range hits {
		switch hit.HitType {
		case models.HitTypeNegative:
			return false
		case models.HitTypeKeyword:
			hasKeyword = true
		case models.HitTypePhrase:
			hasPhrase = true
		}
	}
	return hasKeyword && hasPhrase
}
