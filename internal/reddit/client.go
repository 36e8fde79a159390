// Package reddit implements the collector: a small OAuth2 script-app
// client for Reddit's listing endpoints plus normalization of raw API
// payloads into stored models. Results are best-effort; deleted or removed
// content and anonymized authors are tolerated downstream.
package reddit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client represents a Reddit API client using the script-app OAuth2 flow.
type Client struct {
	baseURL    string
	authURL    string
	httpClient *http.Client

	clientID     string
	clientSecret string
	userAgent    string
	username     string
	password     string

	token       string
	tokenExpiry time.Time
}

// Config holds Reddit API credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string
}

// LoadConfig loads Reddit credentials from environment variables.
func LoadConfig() *Config {
	return &Config{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
	}
}

// Validate reports the names of required credentials that are missing.
func (c *Config) Validate() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.UserAgent == "" {
		missing = append(missing, "REDDIT_USER_AGENT")
	}
	return missing
}

// NewClient creates a new Reddit client.
func NewClient(config *Config) *Client {
	return &Client{
		baseURL:      "https://oauth.reddit.com",
		authURL:      "https://www.reddit.com/api/v1/access_token",
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		userAgent:    config.UserAgent,
		username:     config.Username,
		password:     config.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// authenticate fetches an OAuth2 token, using the password grant when a
// username is configured and client credentials otherwise.
func (c *Client) authenticate() error {
	form := url.Values{}
	if c.username != "" && c.password != "" {
		form.Set("grant_type", "password")
		form.Set("username", c.username)
		form.Set("password", c.password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	req, err := http.NewRequest("POST", c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)
	return nil
}

func (c *Client) get(path string, out interface{}) error {
	if c.token == "" || time.Now().After(c.tokenExpiry) {
		if err := c.authenticate(); err != nil {
			return err
		}
	}

	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit API error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RawThread is one submission as returned by a listing endpoint.
type RawThread struct {
	ID           string  `json:"id"`
	Subreddit    string  `json:"subreddit"`
	Title        string  `json:"title"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	Author       string  `json:"author"`
	URL          string  `json:"url"`
	Permalink    string  `json:"permalink"`
	CreatedUTC   float64 `json:"created_utc"`
	Score        int     `json:"score"`
	NumComments  int     `json:"num_comments"`
}

// RawComment is one comment from a thread's comment tree, flattened with
// its depth.
type RawComment struct {
	ID         string  `json:"id"`
	ParentID   string  `json:"parent_id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
	Depth      int     `json:"depth"`
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchThreads returns the newest submissions for each subreddit, up to
// limit per subreddit.
func (c *Client) FetchThreads(subreddits []string, limit int) ([]RawThread, error) {
	var threads []RawThread
	for _, subreddit := range subreddits {
		path := fmt.Sprintf("/r/%s/new?limit=%d", url.PathEscape(subreddit), limit)

		var page listing
		if err := c.get(path, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch /r/%s: %w", subreddit, err)
		}

		for _, child := range page.Data.Children {
			if child.Kind != "t3" {
				continue
			}
			var thread RawThread
			if err := json.Unmarshal(child.Data, &thread); err != nil {
				continue
			}
			threads = append(threads, thread)
		}
	}
	return threads, nil
}

// FetchThread re-fetches a single submission by its source id. Used by the
// compliance cleanup to check whether content still exists at the source.
func (c *Client) FetchThread(sourceThreadID string) (RawThread, error) {
	path := fmt.Sprintf("/comments/%s?limit=1", url.PathEscape(sourceThreadID))

	var pages []listing
	if err := c.get(path, &pages); err != nil {
		return RawThread{}, fmt.Errorf("failed to fetch thread %s: %w", sourceThreadID, err)
	}

	if len(pages) == 0 {
		return RawThread{}, fmt.Errorf("empty response for thread %s", sourceThreadID)
	}
	for _, child := range pages[0].Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var thread RawThread
		if err := json.Unmarshal(child.Data, &thread); err != nil {
			return RawThread{}, fmt.Errorf("failed to parse thread %s: %w", sourceThreadID, err)
		}
		return thread, nil
	}
	return RawThread{}, fmt.Errorf("thread %s not found", sourceThreadID)
}

// FetchComment re-fetches a single comment by its source id via the info
// endpoint. Used by the compliance cleanup to check whether the comment
// still exists at the source.
func (c *Client) FetchComment(sourceCommentID string) (RawComment, error) {
	path := fmt.Sprintf("/api/info?id=t1_%s", url.QueryEscape(sourceCommentID))

	var page listing
	if err := c.get(path, &page); err != nil {
		return RawComment{}, fmt.Errorf("failed to fetch comment %s: %w", sourceCommentID, err)
	}

	for _, child := range page.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var comment RawComment
		if err := json.Unmarshal(child.Data, &comment); err != nil {
			return RawComment{}, fmt.Errorf("failed to parse comment %s: %w", sourceCommentID, err)
		}
		return comment, nil
	}
	return RawComment{}, fmt.Errorf("comment %s not found", sourceCommentID)
}

type commentNode struct {
	ID         string          `json:"id"`
	ParentID   string          `json:"parent_id"`
	Author     string          `json:"author"`
	Body       string          `json:"body"`
	Permalink  string          `json:"permalink"`
	CreatedUTC float64         `json:"created_utc"`
	Replies    json.RawMessage `json:"replies"` // empty string or a nested listing
}

// FetchComments returns the full comment tree for a thread, flattened in
// tree order with depth recorded. "more" stubs are skipped, matching the
// collector contract that results are best-effort.
func (c *Client) FetchComments(thread RawThread) ([]RawComment, error) {
	path := fmt.Sprintf("/comments/%s?limit=500&depth=10", url.PathEscape(thread.ID))

	var pages []listing
	if err := c.get(path, &pages); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s: %w", thread.ID, err)
	}

	// First listing is the submission itself, second is the comment tree.
	if len(pages) < 2 {
		return nil, nil
	}

	var comments []RawComment
	collectComments(pages[1], 0, &comments)
	return comments, nil
}

func collectComments(page listing, depth int, out *[]RawComment) {
	for _, child := range page.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var node commentNode
		if err := json.Unmarshal(child.Data, &node); err != nil {
			continue
		}
		*out = append(*out, RawComment{
			ID:         node.ID,
			ParentID:   node.ParentID,
			Author:     node.Author,
			Body:       node.Body,
			Permalink:  node.Permalink,
			CreatedUTC: node.CreatedUTC,
			Depth:      depth,
		})

		if len(node.Replies) > 0 && node.Replies[0] == '{' {
			var nested listing
			if err := json.Unmarshal(node.Replies, &nested); err == nil {
				collectComments(nested, depth+1, out)
			}
		}
	}
}
