// Package quote fetches a motivational quote from an upstream provider.
//
// The provider is best-effort: any failure (timeout, non-2xx status,
// malformed body) falls back to a fixed default quote instead of surfacing
// an error to the caller.
package quote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Quote is a single motivational quote.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Fallback is served whenever the upstream provider cannot be reached.
var Fallback = Quote{
	Text:   "A budget is telling your money where to go instead of wondering where it went.",
	Author: "Dave Ramsey",
}

// Client fetches quotes from a ZenQuotes-compatible endpoint.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a quote client with a bounded request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// upstream response shape: [{"q": "...", "a": "..."}]
type upstreamQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Fetch returns a quote. It never fails: on any upstream problem the
// fallback quote is returned.
func (c *Client) Fetch(ctx context.Context) Quote {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		slog.WarnContext(ctx, "Quote request build failed", "error", err, "url", c.url)
		return Fallback
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Quote provider unreachable", "error", err, "url", c.url)
		return Fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.WarnContext(ctx, "Quote provider returned error status", "status", resp.StatusCode, "url", c.url)
		return Fallback
	}

	var quotes []upstreamQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil || len(quotes) == 0 {
		slog.WarnContext(ctx, "Quote response decode failed", "error", err, "url", c.url)
		return Fallback
	}

	return Quote{Text: quotes[0].Q, Author: quotes[0].A}
}
