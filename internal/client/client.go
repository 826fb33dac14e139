// Package client consumes the published JSON artifacts the way the site's
// listing components do: one fetch, then pagination and prev/next in memory.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Bitlatte/docindex/internal/logging"
)

// Client fetches artifacts below a base URL.
type Client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

func New(base string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: base, http: httpClient, logger: logging.OrDiscard(logger)}
}

// ArtifactURL joins base and name, collapsing repeated slashes. The "//"
// after a scheme is kept.
func ArtifactURL(base, name string) string {
	scheme := ""
	if i := strings.Index(base, "://"); i >= 0 {
		scheme, base = base[:i+3], base[i+3:]
	}
	joined := base + "/" + name
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return scheme + joined
}

// Fetch downloads and decodes one artifact. Any failure, including a non-2xx
// status, is logged and yields an empty slice.
func Fetch[T any](ctx context.Context, c *Client, name string) []T {
	url := ArtifactURL(c.base, name)
	items, err := fetch[T](ctx, c.http, url)
	if err != nil {
		c.logger.Warn("artifact fetch failed, showing no items",
			slog.String("url", url),
			slog.Any("error", err),
		)
		return []T{}
	}
	return items
}

func fetch[T any](ctx context.Context, hc *http.Client, url string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
