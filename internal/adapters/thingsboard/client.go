package thingsboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nampham423/IOT-All/internal/domain"
)

// maxResponseBytes caps the latest-values body; one point per channel is tiny
const maxResponseBytes = 1 << 20

// Config identifies the device whose telemetry is read
type Config struct {
	BaseURL    string // e.g. https://app.coreiot.io
	Token      string // JWT sent as X-Authorization: Bearer <token>
	EntityType string // usually DEVICE
	EntityID   string
}

// Client reads the latest timeseries values from a ThingsBoard-compatible server
// This implements the ports.TelemetrySource interface
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a telemetry client; a nil httpClient uses a default with a 30s timeout
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("thingsboard base URL is required")
	}
	if cfg.EntityID == "" {
		return nil, fmt.Errorf("thingsboard entity ID is required")
	}
	if cfg.EntityType == "" {
		cfg.EntityType = "DEVICE"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, http: httpClient}, nil
}

// FetchLatest requests the single most recent value of each key
func (c *Client) FetchLatest(ctx context.Context, keys []string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(keys), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("X-Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

// latestURL builds /api/plugins/telemetry/{type}/{id}/values/timeseries
func (c *Client) latestURL(keys []string) string {
	params := url.Values{}
	params.Set("keys", strings.Join(keys, ","))
	params.Set("limit", "1")
	params.Set("useStrictDataTypes", "false")

	return fmt.Sprintf("%s/api/plugins/telemetry/%s/%s/values/timeseries?%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.EntityType),
		url.PathEscape(c.cfg.EntityID),
		params.Encode(),
	)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
