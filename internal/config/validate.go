package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeCollector, ModePredictor, ModeAll:
	default:
		errs = append(errs, fmt.Errorf("mode must be collector, predictor or all, got %q", c.Mode))
	}

	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive"))
	}
	if c.CallTimeout < 0 {
		errs = append(errs, fmt.Errorf("call_timeout cannot be negative"))
	}
	if c.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("window_size must be at least 1, got %d", c.WindowSize))
	}

	switch c.StoreType {
	case "file", "sqlite":
		if c.StorePath == "" {
			errs = append(errs, fmt.Errorf("store_path is required for %s store", c.StoreType))
		}
	case "memory":
		if c.Mode != ModeAll {
			errs = append(errs, fmt.Errorf("memory store is only shared within one process; use mode=all"))
		}
	default:
		errs = append(errs, fmt.Errorf("store_type must be file, sqlite or memory, got %q", c.StoreType))
	}

	if c.RunsCollector() {
		switch c.SourceType {
		case "thingsboard":
			if c.ThingsBoard.EntityID == "" {
				errs = append(errs, fmt.Errorf("tb_entity_id is required for thingsboard source"))
			}
		case "mock":
		default:
			errs = append(errs, fmt.Errorf("source_type must be thingsboard or mock, got %q", c.SourceType))
		}
		if len(c.ThingsBoard.Keys) != 3 {
			errs = append(errs, fmt.Errorf("tb_keys must name exactly 3 channels, got %d", len(c.ThingsBoard.Keys)))
		}
	}

	if c.RunsPredictor() {
		switch c.ModelType {
		case "trend", "persistence":
		case "remote":
			if c.ModelURL == "" {
				errs = append(errs, fmt.Errorf("model_url is required for remote model"))
			}
		default:
			errs = append(errs, fmt.Errorf("model_type must be trend, persistence or remote, got %q", c.ModelType))
		}

		for _, n := range c.Notifiers {
			switch n {
			case "log":
			case "smtp":
				if len(c.SMTP.To) == 0 {
					errs = append(errs, fmt.Errorf("smtp_to is required for smtp notifier"))
				}
			case "mqtt":
				if c.MQTT.Broker == "" {
					errs = append(errs, fmt.Errorf("mqtt_broker is required for mqtt notifier"))
				}
				if c.MQTT.TLSCert != "" && c.MQTT.TLSKey == "" {
					errs = append(errs, fmt.Errorf("mqtt_tls_key is required with mqtt_tls_cert"))
				}
			default:
				errs = append(errs, fmt.Errorf("unknown notifier %q", n))
			}
		}
	}

	if c.TLSCert != "" && (c.TLSKey == "" || c.TLSCA == "") {
		errs = append(errs, fmt.Errorf("tls_key and tls_ca are required with tls_cert"))
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
