// Package notify delivers forecast alerts to operators.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/nampham423/IOT-All/internal/domain"
	"github.com/nampham423/IOT-All/internal/ports"
)

// LogNotifier writes alerts to the service log
type LogNotifier struct{}

// Notify implements ports.Notifier
func (LogNotifier) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	log.Warn().
		Str("component", "alert").
		Float64("temperature", forecast.Temperature).
		Float64("humidity", forecast.Humidity).
		Float64("light", forecast.Light).
		Int64("ts", forecast.Timestamp).
		Msg("predicted values exceed thresholds")
	return nil
}

// Multi sends each alert to every notifier, even when some fail
type Multi []ports.Notifier

// Notify implements ports.Notifier; failures are joined
func (m Multi) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, forecast); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
