package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nampham423/IOT-All/internal/domain"
)

// Remote posts the window to an inference server.
//
// Request:  {"window": [[temperature, humidity, light], ...]} oldest first.
// Response: {"temperature": t, "humidity": h, "light": l} or [t, h, l].
type Remote struct {
	url  string
	http *http.Client
}

// NewRemote creates a remote forecaster; a nil httpClient uses a default with a 30s timeout
func NewRemote(url string, httpClient *http.Client) (*Remote, error) {
	if url == "" {
		return nil, fmt.Errorf("model URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{url: url, http: httpClient}, nil
}

// Forecast implements ports.Forecaster
func (r *Remote) Forecast(ctx context.Context, window []domain.TelemetrySample) (domain.TelemetrySample, error) {
	if len(window) == 0 {
		return domain.TelemetrySample{}, ErrEmptyWindow
	}

	rows := make([][3]float64, len(window))
	for i, s := range window {
		rows[i] = s.Values()
	}
	payload, err := json.Marshal(map[string]any{"window": rows})
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("failed to encode window: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return domain.TelemetrySample{}, fmt.Errorf("failed to read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TelemetrySample{}, fmt.Errorf("inference server returned status %d", resp.StatusCode)
	}

	return parsePrediction(body)
}

func parsePrediction(body []byte) (domain.TelemetrySample, error) {
	if !gjson.ValidBytes(body) {
		return domain.TelemetrySample{}, fmt.Errorf("inference response is not valid JSON")
	}

	doc := gjson.ParseBytes(body)
	switch {
	case doc.IsArray():
		values := doc.Array()
		if len(values) != 3 {
			return domain.TelemetrySample{}, fmt.Errorf("expected 3 predicted values, got %d", len(values))
		}
		return domain.NewTelemetrySample(values[0].Float(), values[1].Float(), values[2].Float()), nil
	case doc.IsObject():
		return domain.NewTelemetrySample(
			doc.Get("temperature").Float(),
			doc.Get("humidity").Float(),
			doc.Get("light").Float(),
		), nil
	default:
		return domain.TelemetrySample{}, fmt.Errorf("unexpected inference response %s", doc.Raw)
	}
}
