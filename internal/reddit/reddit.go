// Package reddit fetches comment-thread metadata from Reddit's public JSON
// endpoints.
//
// UPSTREAM SHAPE:
// Appending ".json" to a comment permalink returns an array of two
// listings; the second listing's data.children[0].data node holds the
// comment itself: {score, author, replies, ...}. "replies" is either the
// empty string (no sub-comments) or a nested listing whose data.children
// length is the sub-comment count. An unresolvable link returns an object
// with an "error" property instead of the array.
//
// DEGRADATION POLICY:
// A link that no longer resolves — error response, non-2xx status, network
// failure, timeout — is NOT an error here. Fetch returns (nil, nil) and
// callers keep whatever cached data they already have. Only creation-time
// resolution failures become client-facing errors, and that decision
// belongs to the caller.
package reddit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"
)

// Thread URLs must point at a specific comment in r/adventofcode. Trailing
// tracking parameters after a valid match are discarded by truncating to
// the matched substring.
var threadURLPattern = regexp.MustCompile(`^https://www\.reddit\.com/r/adventofcode/comments/\w+/comment/\w+`)

// ResolveURL returns the canonical comment-thread URL with any trailing
// query/tracking junk removed, or ok=false if the URL does not match the
// required pattern.
func ResolveURL(rawURL string) (string, bool) {
	match := threadURLPattern.FindString(rawURL)
	if match == "" {
		return "", false
	}
	return match, true
}

// ThreadData is the parsed metadata for one comment thread. Raw holds the
// unmodified data.children[0].data node for the passthrough endpoint.
type ThreadData struct {
	Score          int
	Author         string
	NumSubComments int
	Raw            json.RawMessage
}

// Client fetches thread metadata over HTTP.
//
// Requests are bounded by the configured timeout and paced by a client-side
// rate limiter so a burst of card reads doesn't trip Reddit's
// unauthenticated request budget.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Client whose requests time out after the given
// duration. A timeout of 0 means no bound (the upstream's behaviour decides).
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 4),
		userAgent:  "code-cards/1.0",
		logger:     logger,
	}
}

// Fetch retrieves metadata for the thread at redditURL. It returns
// (nil, nil) when the link does not resolve — callers must treat that as
// "keep the cached data", never as a reason to drop the card. A non-nil
// error is only returned for local failures (cancelled context, bad URL).
func (c *Client) Fetch(ctx context.Context, redditURL string) (*ThreadData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditURL+".json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("reddit fetch failed",
			slog.String("url", redditURL),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("reddit fetch returned non-200",
			slog.String("url", redditURL),
			slog.Int("status", resp.StatusCode),
		)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("reading reddit response failed",
			slog.String("url", redditURL),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	return parseThread(body)
}

// parseThread extracts the comment node from a raw thread response.
// Anything that isn't the expected two-listing array — including the
// {"error": ...} object Reddit returns for dead links — parses as
// unresolved (nil, nil).
func parseThread(body []byte) (*ThreadData, error) {
	var listings []json.RawMessage
	if err := json.Unmarshal(body, &listings); err != nil || len(listings) < 2 {
		return nil, nil
	}

	var wrapper struct {
		Data struct {
			Children []struct {
				Data json.RawMessage `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(listings[1], &wrapper); err != nil || len(wrapper.Data.Children) == 0 {
		return nil, nil
	}
	raw := wrapper.Data.Children[0].Data

	var node struct {
		Score   int     `json:"score"`
		Author  string  `json:"author"`
		Replies replies `json:"replies"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, nil
	}

	return &ThreadData{
		Score:          node.Score,
		Author:         node.Author,
		NumSubComments: node.Replies.count,
		Raw:            raw,
	}, nil
}

// replies handles Reddit's two encodings of a comment's reply listing:
// the empty string when there are no sub-comments, a nested listing
// otherwise.
type replies struct {
	count int
}

func (r *replies) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.count = 0
		return nil
	}

	var listing struct {
		Data struct {
			Children []json.RawMessage `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return err
	}
	r.count = len(listing.Data.Children)
	return nil
}
