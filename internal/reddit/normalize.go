package reddit

import (
	"strings"
	"time"

	"lead-radar/internal/models"

	"golang.org/x/net/html"
)

const sourceName = "reddit"

// NormalizeThread converts a raw submission into a Thread model. Deleted
// and removed markers become flags, and a missing author (anonymized or
// deleted account) becomes an empty string.
func NormalizeThread(raw RawThread) models.Thread {
	now := time.Now().Unix()
	body := raw.Selftext
	if body == "" && raw.SelftextHTML != "" {
		body = stripHTML(raw.SelftextHTML)
	}

	return models.Thread{
		Source:              sourceName,
		SourceThreadID:      raw.ID,
		URL:                 raw.URL,
		Subreddit:           raw.Subreddit,
		Title:               raw.Title,
		Body:                body,
		Author:              normalizeAuthor(raw.Author),
		CreatedUTC:          int64(raw.CreatedUTC),
		LastSeenUTC:         now,
		LastContentUTC:      int64(raw.CreatedUTC),
		IsDeleted:           raw.Selftext == "[deleted]",
		IsRemoved:           raw.Selftext == "[removed]",
		Score:               raw.Score,
		NumCommentsReported: raw.NumComments,
	}
}

// NormalizeComment converts a raw comment into a Comment model tied to the
// given thread. Parent linkage stays at the source level.
func NormalizeComment(raw RawComment, threadID uint) models.Comment {
	now := time.Now().Unix()
	return models.Comment{
		ThreadID:        threadID,
		Source:          sourceName,
		SourceCommentID: raw.ID,
		ParentSourceID:  raw.ParentID,
		Author:          normalizeAuthor(raw.Author),
		Body:            raw.Body,
		CreatedUTC:      int64(raw.CreatedUTC),
		LastSeenUTC:     now,
		IsDeleted:       raw.Body == "[deleted]",
		Depth:           raw.Depth,
		Permalink:       raw.Permalink,
	}
}

func normalizeAuthor(author string) string {
	if author == "[deleted]" {
		return ""
	}
	return author
}

// stripHTML extracts plain text from an HTML fragment. Reddit omits plain
// selftext for some listings but still carries the HTML rendering.
func stripHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(text.String())
}
