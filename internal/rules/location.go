package rules

import (
	"fmt"
	"strings"

	"lead-radar/internal/models"
	"lead-radar/internal/settings"
)

// InferLocation decides whether a thread is inside the business's service
// area. A configured subreddit mapping is authoritative and short-circuits
// text scanning; otherwise the concatenated thread and comment text is
// scanned for out-of-area tokens first (the stronger signal), then in-area
// tokens, first match wins. Returns one of the models.InArea* states plus
// the evidence string, empty for unknown.
func InferLocation(thread models.Thread, comments []models.Comment, cfg settings.Settings) (string, string) {
	subreddit := strings.ToLower(thread.Subreddit)
	if subreddit != "" {
		if mapped, ok := cfg.SubredditGeoMap[subreddit]; ok {
			switch value := mapped.(type) {
			case bool:
				state := models.InAreaFalse
				if value {
					state = models.InAreaTrue
				}
				return state, fmt.Sprintf("subreddit=%s", subreddit)
			case string:
				if strings.TrimSpace(value) != "" {
					return models.InAreaTrue, fmt.Sprintf("subreddit=%s:%s", subreddit, strings.TrimSpace(value))
				}
			}
		}
	}

	serviceTokens := normalizeTerms(cfg.GeoServiceArea)
	outOfAreaTokens := normalizeTerms(cfg.GeoOutOfArea)

	chunks := []string{thread.Title, thread.Body}
	for _, comment := range comments {
		chunks = append(chunks, comment.Body)
	}
	combined := strings.ToLower(strings.Join(chunks, " "))

	for _, token := range outOfAreaTokens {
		if strings.Contains(combined, token) {
			return models.InAreaFalse, fmt.Sprintf("text=%s", token)
		}
	}

	for _, token := range serviceTokens {
		if strings.Contains(combined, token) {
			return models.InAreaTrue, fmt.Sprintf("text=%s", token)
		}
	}

	return models.InAreaUnknown, ""
}
