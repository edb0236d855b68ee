package ports

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nampham423/IOT-All/internal/domain"
)

// LoopConfig holds the timing shared by the collector and predictor
type LoopConfig struct {
	// Interval is the sleep between the end of one tick and the start of the next
	Interval time.Duration
	// CallTimeout bounds each blocking call within a tick; zero disables it
	CallTimeout time.Duration
}

// withTimeout derives a per-call context
func (c LoopConfig) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.CallTimeout)
}

// runEvery calls tick immediately and then again Interval after each tick
// returns, until ctx is cancelled. Tick errors are logged, never fatal.
func runEvery(ctx context.Context, logger zerolog.Logger, interval time.Duration, tick func(context.Context) error) {
	logger.Info().
		Dur("interval", interval).
		Msg("starting loop")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			logTickError(logger, tick(ctx))
			timer.Reset(interval)

		case <-ctx.Done():
			logger.Info().Msg("stopping loop")
			return
		}
	}
}

// logTickError picks a level: expected waits are info, bad snapshots warn
func logTickError(logger zerolog.Logger, err error) {
	switch {
	case err == nil:
	case domain.IsTransient(err):
		logger.Info().Err(err).Msg("buffer not usable yet, waiting for next tick")
	case errors.Is(err, domain.ErrMalformed):
		logger.Warn().Err(err).Msg("buffer snapshot malformed, skipping tick")
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("tick cancelled")
	default:
		logger.Error().Err(err).Msg("tick failed")
	}
}

// componentLogger returns the global logger tagged with component
func componentLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// dumpWindow logs the window contents at debug level, newest marked if predicted
func dumpWindow(logger zerolog.Logger, w *domain.Window, predicted bool) {
	samples := w.Samples()
	for i, s := range samples {
		ev := logger.Debug().
			Int("index", i+1).
			Int64("ts", s.Timestamp).
			Float64("temperature", s.Temperature).
			Float64("humidity", s.Humidity).
			Float64("light", s.Light)
		if predicted && i == len(samples)-1 {
			ev = ev.Bool("predicted", true)
		}
		ev.Msg("buffer entry")
	}
}
