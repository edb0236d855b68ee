package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nampham423/IOT-All/internal/adapters/file"
	"github.com/nampham423/IOT-All/internal/adapters/forecast"
	"github.com/nampham423/IOT-All/internal/adapters/memory"
	"github.com/nampham423/IOT-All/internal/adapters/mock"
	"github.com/nampham423/IOT-All/internal/adapters/notify"
	"github.com/nampham423/IOT-All/internal/adapters/sqlite"
	"github.com/nampham423/IOT-All/internal/adapters/thingsboard"
	"github.com/nampham423/IOT-All/internal/config"
	"github.com/nampham423/IOT-All/internal/domain"
	"github.com/nampham423/IOT-All/internal/ports"
	"github.com/nampham423/IOT-All/pkg/tlsconfig"
)

// newSnapshotStorage returns the configured storage and a close func
func newSnapshotStorage(cfg *config.Config) (domain.SnapshotStorage, func(), error) {
	switch cfg.StoreType {
	case "sqlite":
		s, err := sqlite.NewSnapshotStorage(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return memory.NewSnapshotStorage(), func() {}, nil
	default:
		s, err := file.NewSnapshotStorage(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func newTelemetrySource(cfg *config.Config) (ports.TelemetrySource, error) {
	switch cfg.SourceType {
	case "mock":
		log.Info().Msg("initialized mock telemetry source")
		return mock.NewIndoorSource(), nil
	default:
		client, err := thingsboard.NewClient(thingsboard.Config{
			BaseURL:    cfg.ThingsBoard.BaseURL,
			Token:      cfg.ThingsBoard.Token,
			EntityType: cfg.ThingsBoard.EntityType,
			EntityID:   cfg.ThingsBoard.EntityID,
		}, nil)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("base_url", cfg.ThingsBoard.BaseURL).
			Str("entity_id", cfg.ThingsBoard.EntityID).
			Msg("initialized thingsboard telemetry source")
		return client, nil
	}
}

func newForecaster(cfg *config.Config) (ports.Forecaster, error) {
	log.Info().Str("model", cfg.ModelType).Msg("initialized forecaster")
	switch cfg.ModelType {
	case "persistence":
		return forecast.Persistence{}, nil
	case "remote":
		return forecast.NewRemote(cfg.ModelURL, nil)
	default:
		return forecast.LinearTrend{}, nil
	}
}

func newNotifier(cfg *config.Config) (ports.Notifier, error) {
	var notifiers notify.Multi
	for _, name := range cfg.Notifiers {
		switch name {
		case "log":
			notifiers = append(notifiers, notify.LogNotifier{})
		case "smtp":
			n, err := notify.NewEmailNotifier(notify.EmailConfig{
				Host:     cfg.SMTP.Host,
				Port:     cfg.SMTP.Port,
				Username: cfg.SMTP.Username,
				Password: cfg.SMTP.Password,
				From:     cfg.SMTP.From,
				To:       cfg.SMTP.To,
			})
			if err != nil {
				return nil, err
			}
			notifiers = append(notifiers, n)
		case "mqtt":
			mqttCfg := notify.MQTTConfig{
				Broker:   cfg.MQTT.Broker,
				Topic:    cfg.MQTT.Topic,
				Username: cfg.MQTT.Username,
				Password: cfg.MQTT.Password,
				ClientID: cfg.MQTT.ClientID,
			}
			if cfg.MQTT.UseTLS() {
				tlsCfg, err := tlsconfig.LoadClientTLS(cfg.MQTT.TLSCert, cfg.MQTT.TLSKey, cfg.MQTT.TLSCA)
				if err != nil {
					return nil, fmt.Errorf("failed to load mqtt TLS config: %w", err)
				}
				mqttCfg.TLS = tlsCfg
			}
			n, err := notify.NewMQTTNotifier(mqttCfg)
			if err != nil {
				return nil, err
			}
			notifiers = append(notifiers, n)
		}
		log.Info().Str("notifier", name).Msg("initialized alert notifier")
	}
	return notifiers, nil
}
