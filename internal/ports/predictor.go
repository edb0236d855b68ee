package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nampham423/IOT-All/internal/domain"
)

// Predictor forecasts the next sample from the shared window and feeds
// the forecast back into it.
//
// The forecast is appended as if it were an observation. While the
// collector is silent, each tick predicts from earlier predictions and
// the window drifts; nothing damps that.
type Predictor struct {
	store      *BufferStore
	forecaster Forecaster
	notifier   Notifier
	policy     domain.AlertPolicy
	status     StatusReporter
	cfg        LoopConfig
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPredictor creates a new predictor loop
func NewPredictor(store *BufferStore, forecaster Forecaster, notifier Notifier, policy domain.AlertPolicy, cfg LoopConfig) *Predictor {
	return &Predictor{
		store:      store,
		forecaster: forecaster,
		notifier:   notifier,
		policy:     policy,
		cfg:        cfg,
		logger:     componentLogger("predictor"),
		now:        time.Now,
	}
}

// WithStatusReporter sets where window readiness is published
func (p *Predictor) WithStatusReporter(r StatusReporter) *Predictor {
	p.status = r
	return p
}

// Start runs the predictor until ctx is cancelled
func (p *Predictor) Start(ctx context.Context) {
	runEvery(ctx, p.logger, p.cfg.Interval, p.predictOnce)
}

// predictOnce runs load, forecast, alert check, append and persist
func (p *Predictor) predictOnce(ctx context.Context) error {
	window, err := p.load(ctx)
	p.reportReady(err == nil)
	if err != nil {
		return err
	}

	forecast, err := p.forecast(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to forecast: %w", err)
	}

	p.logger.Info().
		Float64("temperature", forecast.Temperature).
		Float64("humidity", forecast.Humidity).
		Float64("light", forecast.Light).
		Msg("forecast next sample")

	if p.policy.ShouldAlert(forecast) {
		p.alert(ctx, forecast)
	}

	window.Push(forecast)

	saveCtx, cancel := p.cfg.withTimeout(ctx)
	defer cancel()
	if err := p.store.Save(saveCtx, window); err != nil {
		return err
	}

	p.logger.Info().
		Int("samples", window.Len()).
		Str("store", p.store.Location()).
		Msg("appended forecast to buffer")
	dumpWindow(p.logger, window, true)

	return nil
}

func (p *Predictor) load(ctx context.Context) (*domain.Window, error) {
	ctx, cancel := p.cfg.withTimeout(ctx)
	defer cancel()
	return p.store.Load(ctx)
}

// forecast runs the model and stamps the result with the current time
func (p *Predictor) forecast(ctx context.Context, window *domain.Window) (domain.TelemetrySample, error) {
	ctx, cancel := p.cfg.withTimeout(ctx)
	defer cancel()

	forecast, err := p.forecaster.Forecast(ctx, window.Samples())
	if err != nil {
		return domain.TelemetrySample{}, err
	}
	return forecast.Stamped(p.now()), nil
}

// alert sends one notification; delivery failures are logged and dropped
func (p *Predictor) alert(ctx context.Context, forecast domain.TelemetrySample) {
	ctx, cancel := p.cfg.withTimeout(ctx)
	defer cancel()

	logger := p.logger.With().Strs("breaches", p.policy.Breaches(forecast)).Logger()
	if err := p.notifier.Notify(ctx, forecast); err != nil {
		logger.Error().Err(err).Str("forecast", forecast.String()).Msg("failed to send alert")
		return
	}
	logger.Info().Str("forecast", forecast.String()).Msg("alert sent")
}

func (p *Predictor) reportReady(ready bool) {
	if p.status != nil {
		p.status.SetWindowReady(ready)
	}
}
