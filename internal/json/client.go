package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tomek7667/sysdash/internal/domain"
)

const (
	PerformancePath = "/api/performance"
	ProcessesPath   = "/api/processes"

	defaultTimeout = 5 * time.Second
	// Bodies larger than this are treated as broken responses.
	maxBodyBytes = 16 << 20
)

// Client reads snapshots from a sysdash server.
type Client struct {
	BaseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Performance(ctx context.Context) (domain.PerformanceSnapshot, error) {
	var snap domain.PerformanceSnapshot
	if err := c.getJSON(ctx, PerformancePath, &snap); err != nil {
		return domain.PerformanceSnapshot{}, err
	}
	return snap, nil
}

func (c *Client) Processes(ctx context.Context) ([]domain.ProcessEntry, error) {
	var entries []domain.ProcessEntry
	if err := c.getJSON(ctx, ProcessesPath, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.ProcessEntry{}
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
