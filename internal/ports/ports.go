package ports

import (
	"context"

	"github.com/nampham423/IOT-All/internal/domain"
)

// TelemetrySource defines how to fetch the freshest upstream reading
// This is a PORT - adapters (ThingsBoard, Mock) will implement it
type TelemetrySource interface {
	// FetchLatest returns the raw latest-values document for the given channels:
	// a JSON object mapping each channel to [{"ts": <ms>, "value": <number|string>}]
	FetchLatest(ctx context.Context, keys []string) ([]byte, error)
}

// Forecaster predicts the next sample from a full window, oldest first.
// The returned sample carries no timestamp.
type Forecaster interface {
	Forecast(ctx context.Context, window []domain.TelemetrySample) (domain.TelemetrySample, error)
}

// Notifier delivers a predicted sample to an operator-facing channel
type Notifier interface {
	Notify(ctx context.Context, forecast domain.TelemetrySample) error
}

// StatusReporter publishes whether the predictor last saw a ready window
type StatusReporter interface {
	SetWindowReady(ready bool)
}
