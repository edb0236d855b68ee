package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	grpcAdapter "github.com/nampham423/IOT-All/internal/adapters/grpc"
	"github.com/nampham423/IOT-All/internal/config"
	"github.com/nampham423/IOT-All/internal/ports"
	"github.com/nampham423/IOT-All/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	log.Info().
		Str("mode", cfg.Mode).
		Dur("interval", cfg.PollInterval).
		Int("window_size", cfg.WindowSize).
		Msg("starting envwindow")

	// Initialize buffer store
	storage, closeStorage, err := newSnapshotStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store_path", cfg.StorePath).Msg("failed to open buffer store")
	}
	defer closeStorage()
	store := ports.NewBufferStore(storage, cfg.WindowSize)
	log.Info().Str("store", store.Location()).Str("type", cfg.StoreType).Msg("initialized buffer store")

	loopCfg := ports.LoopConfig{
		Interval:    cfg.PollInterval,
		CallTimeout: cfg.CallTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	var health *grpcAdapter.HealthReporter
	if cfg.GRPCPort != "" {
		health = grpcAdapter.NewHealthReporter()
		if err := startGRPC(ctx, g, cfg, health); err != nil {
			log.Fatal().Err(err).Msg("failed to start gRPC server")
		}
	}

	if cfg.RunsCollector() {
		source, err := newTelemetrySource(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize telemetry source")
		}
		keys := ports.ChannelKeys{
			Temperature: cfg.ThingsBoard.Keys[0],
			Humidity:    cfg.ThingsBoard.Keys[1],
			Light:       cfg.ThingsBoard.Keys[2],
		}
		collector := ports.NewCollector(source, store, keys, loopCfg)
		g.Go(func() error {
			collector.Start(ctx)
			return nil
		})
	}

	if cfg.RunsPredictor() {
		forecaster, err := newForecaster(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize forecaster")
		}
		notifier, err := newNotifier(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize notifiers")
		}
		predictor := ports.NewPredictor(store, forecaster, notifier, cfg.AlertPolicy(), loopCfg)
		if health != nil {
			predictor.WithStatusReporter(health)
		}
		g.Go(func() error {
			predictor.Start(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stopped with error")
	}
	log.Info().Msg("envwindow stopped")
}

// startGRPC serves the health service until ctx is done
func startGRPC(ctx context.Context, g *errgroup.Group, cfg *config.Config, health *grpcAdapter.HealthReporter) error {
	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLSCert, cfg.TLSKey, cfg.TLSCA)
		if err != nil {
			return fmt.Errorf("failed to load TLS config: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, health server runs without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	health.Register(grpcServer)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	log.Info().Str("port", cfg.GRPCPort).Msg("gRPC health server listening")

	g.Go(func() error {
		return grpcServer.Serve(listener)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down gRPC server...")
		health.Shutdown()
		grpcAdapter.StopServer(grpcServer, grpcAdapter.DefaultStopTimeout)
		return nil
	})
	return nil
}

func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
