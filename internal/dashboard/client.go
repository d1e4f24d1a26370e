package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/sentidash/internal/clients"
	"github.com/spacesedan/sentidash/internal/models"
)

const (
	tweetsPath     = "/api/tweets"
	sentimentsPath = "/api/sentiments"
)

// Client reads the two dashboard endpoints over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-2xx answer from an endpoint.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.Status, e.Body)
}

func (c *Client) FetchTweets(ctx context.Context) ([]models.Tweet, error) {
	var out models.TweetsResponse
	if err := c.getJSON(ctx, tweetsPath, &out); err != nil {
		return nil, err
	}
	return out.Tweets, nil
}

func (c *Client) FetchSentiments(ctx context.Context) ([]models.SentimentCount, error) {
	var out models.SentimentsResponse
	if err := c.getJSON(ctx, sentimentsPath, &out); err != nil {
		return nil, err
	}
	return out.Sentiments, nil
}

func (c *Client) getJSON(ctx context.Context, path string, output any) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", clients.USER_AGENT)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("[DashboardClient] Request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("[DashboardClient] Non-success status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(body))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, output); err != nil {
		slog.Error("[DashboardClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(body))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	slog.Debug("[DashboardClient] Fetched",
		slog.String("endpoint", endpoint),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func getPreview(body []byte) slog.Attr {
	raw := string(body)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
