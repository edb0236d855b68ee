package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nampham423/IOT-All/internal/domain"
)

// Collector fetches one fresh sample per tick and pushes it into the shared window
type Collector struct {
	source TelemetrySource
	store  *BufferStore
	keys   ChannelKeys
	cfg    LoopConfig
	logger zerolog.Logger
}

// NewCollector creates a new collector loop
func NewCollector(source TelemetrySource, store *BufferStore, keys ChannelKeys, cfg LoopConfig) *Collector {
	return &Collector{
		source: source,
		store:  store,
		keys:   keys,
		cfg:    cfg,
		logger: componentLogger("collector"),
	}
}

// Start runs the collector until ctx is cancelled
func (c *Collector) Start(ctx context.Context) {
	runEvery(ctx, c.logger, c.cfg.Interval, c.collectOnce)
}

// collectOnce runs fetch, parse, merge and persist
func (c *Collector) collectOnce(ctx context.Context) error {
	raw, err := c.fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch telemetry: %w", err)
	}

	sample, err := ParseLatest(raw, c.keys)
	if err != nil {
		return fmt.Errorf("failed to parse telemetry: %w", err)
	}

	c.logger.Info().
		Float64("temperature", sample.Temperature).
		Float64("humidity", sample.Humidity).
		Float64("light", sample.Light).
		Msg("received sample")

	window, err := c.load(ctx)
	if err != nil {
		return err
	}
	window.Push(sample)

	saveCtx, cancel := c.cfg.withTimeout(ctx)
	defer cancel()
	if err := c.store.Save(saveCtx, window); err != nil {
		return err
	}

	c.logger.Info().
		Int("samples", window.Len()).
		Bool("ready", window.IsReady()).
		Str("store", c.store.Location()).
		Msg("saved buffer")
	dumpWindow(c.logger, window, false)

	return nil
}

func (c *Collector) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.cfg.withTimeout(ctx)
	defer cancel()
	return c.source.FetchLatest(ctx, c.keys.List())
}

// load returns the stored window, or an empty one before the first save.
// A malformed snapshot is replaced rather than left to block both loops.
func (c *Collector) load(ctx context.Context) (*domain.Window, error) {
	ctx, cancel := c.cfg.withTimeout(ctx)
	defer cancel()

	window, err := c.store.LoadPartial(ctx)
	switch {
	case err == nil:
		return window, nil
	case errors.Is(err, domain.ErrNotFound):
		c.logger.Info().Str("store", c.store.Location()).Msg("no buffer yet, starting a new one")
		return domain.NewWindow(c.store.Capacity()), nil
	case errors.Is(err, domain.ErrMalformed):
		c.logger.Warn().Err(err).Msg("discarding malformed buffer")
		return domain.NewWindow(c.store.Capacity()), nil
	default:
		return nil, err
	}
}
