// Package evaluator contains the per-thread evaluation state machine: the
// delta-aware rule pass, the classification gate, and transactional
// application of the verdict.
package evaluator

import (
	"sort"

	"lead-radar/internal/models"
)

// CommentsSince returns the comments created strictly after the watermark.
// Comments are immutable once created, so incremental passes never need to
// re-scan anything at or before it.
func CommentsSince(comments []models.Comment, watermarkUTC int64) []models.Comment {
	var delta []models.Comment
	for _, comment := range comments {
		if comment.CreatedUTC > watermarkUTC {
			delta = append(delta, comment)
		}
	}
	return delta
}

// SelectDeltaComments picks the bounded subset of delta comments to send
// to classification. The thread author's own follow-ups are prioritized
// under the size cap: both groups are ordered newest-first, the author
// group is taken first, and the surviving subset is re-sorted ascending by
// creation time to preserve conversational order in the payload.
func SelectDeltaComments(threadAuthor string, delta []models.Comment, maxSent int) []models.Comment {
	if maxSent <= 0 || len(delta) == 0 {
		return nil
	}

	var authorComments, otherComments []models.Comment
	for _, comment := range delta {
		if threadAuthor != "" && comment.Author == threadAuthor {
			authorComments = append(authorComments, comment)
		} else {
			otherComments = append(otherComments, comment)
		}
	}

	byCreatedDesc := func(comments []models.Comment) {
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedUTC > comments[j].CreatedUTC
		})
	}
	byCreatedDesc(authorComments)
	byCreatedDesc(otherComments)

	selected := append(authorComments, otherComments...)
	if len(selected) > maxSent {
		selected = selected[:maxSent]
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedUTC < selected[j].CreatedUTC
	})
	return selected
}
