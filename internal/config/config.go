// Package config loads service settings from the environment and an optional YAML file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nampham423/IOT-All/internal/domain"
)

// Run modes
const (
	ModeCollector = "collector"
	ModePredictor = "predictor"
	ModeAll       = "all"
)

// Config holds application configuration
type Config struct {
	Mode         string        // "collector" | "predictor" | "all"
	PollInterval time.Duration // sleep between ticks, both loops
	CallTimeout  time.Duration // bound on each blocking call
	WindowSize   int

	TempThreshold  float64
	HumiThreshold  float64
	LightThreshold float64

	StoreType string // "file" | "sqlite" | "memory"
	StorePath string // snapshot file, or SQLite database path

	SourceType  string // "thingsboard" | "mock"
	ThingsBoard ThingsBoardConfig

	ModelType string // "trend" | "persistence" | "remote"
	ModelURL  string

	Notifiers []string // any of "log", "smtp", "mqtt"
	SMTP      SMTPConfig
	MQTT      MQTTConfig

	GRPCPort string // empty disables the health server
	TLSCert  string // path to this service's certificate
	TLSKey   string // path to this service's private key
	TLSCA    string // path to the CA certificate

	LogLevel  string
	LogFormat string // "console" | "json"
}

// ThingsBoardConfig identifies the telemetry device
type ThingsBoardConfig struct {
	BaseURL    string
	Token      string
	EntityType string
	EntityID   string
	// Keys are the upstream channel names for temperature, humidity and light
	Keys []string
}

// SMTPConfig holds alert email settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// MQTTConfig holds alert broker settings
type MQTTConfig struct {
	Broker   string
	Topic    string
	Username string
	Password string
	ClientID string
	TLSCert  string
	TLSKey   string
	TLSCA    string
	TLS      bool
}

// UseTLS reports whether the broker connection is dialed over TLS.
// Setting a client certificate or a CA implies TLS.
func (m MQTTConfig) UseTLS() bool {
	return m.TLS || m.TLSCert != "" || m.TLSCA != ""
}

// AlertPolicy returns the configured thresholds
func (c *Config) AlertPolicy() domain.AlertPolicy {
	return domain.AlertPolicy{
		TempThreshold:  c.TempThreshold,
		HumiThreshold:  c.HumiThreshold,
		LightThreshold: c.LightThreshold,
	}
}

// RunsCollector reports whether this process runs the collector loop
func (c *Config) RunsCollector() bool {
	return c.Mode == ModeCollector || c.Mode == ModeAll
}

// RunsPredictor reports whether this process runs the predictor loop
func (c *Config) RunsPredictor() bool {
	return c.Mode == ModePredictor || c.Mode == ModeAll
}

// HasNotifier reports whether name is among the enabled notifiers
func (c *Config) HasNotifier(name string) bool {
	for _, n := range c.Notifiers {
		if n == name {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeAll)
	v.SetDefault("poll_interval", 5)
	v.SetDefault("call_timeout", "10s")
	v.SetDefault("window_size", domain.DefaultWindowSize)

	v.SetDefault("temp_threshold", domain.DefaultTempThreshold)
	v.SetDefault("humi_threshold", domain.DefaultHumiThreshold)
	v.SetDefault("light_threshold", domain.DefaultLightThreshold)

	v.SetDefault("store_type", "file")
	v.SetDefault("store_path", "buffer.json")

	v.SetDefault("source_type", "thingsboard")
	v.SetDefault("tb_base_url", "https://app.coreiot.io")
	v.SetDefault("tb_token", "")
	v.SetDefault("tb_entity_type", "DEVICE")
	v.SetDefault("tb_entity_id", "")
	v.SetDefault("tb_keys", "temperature,humidity,light")

	v.SetDefault("model_type", "trend")
	v.SetDefault("model_url", "")

	v.SetDefault("notifiers", "log")
	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("smtp_from", "")
	v.SetDefault("smtp_to", "")

	v.SetDefault("mqtt_broker", "")
	v.SetDefault("mqtt_topic", "envwindow/alerts")
	v.SetDefault("mqtt_username", "")
	v.SetDefault("mqtt_password", "")
	v.SetDefault("mqtt_client_id", "")
	v.SetDefault("mqtt_tls", false)
	v.SetDefault("mqtt_tls_cert", "")
	v.SetDefault("mqtt_tls_key", "")
	v.SetDefault("mqtt_tls_ca", "")

	v.SetDefault("grpc_port", "50051")
	v.SetDefault("tls_cert", "")
	v.SetDefault("tls_key", "")
	v.SetDefault("tls_ca", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads configuration from environment variables (upper-cased keys)
// layered over an optional YAML file. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	pollInterval, err := seconds(v.Get("poll_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid poll_interval: %w", err)
	}
	callTimeout, err := seconds(v.Get("call_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid call_timeout: %w", err)
	}

	cfg := &Config{
		Mode:         strings.ToLower(v.GetString("mode")),
		PollInterval: pollInterval,
		CallTimeout:  callTimeout,
		WindowSize:   v.GetInt("window_size"),

		TempThreshold:  v.GetFloat64("temp_threshold"),
		HumiThreshold:  v.GetFloat64("humi_threshold"),
		LightThreshold: v.GetFloat64("light_threshold"),

		StoreType: strings.ToLower(v.GetString("store_type")),
		StorePath: v.GetString("store_path"),

		SourceType: strings.ToLower(v.GetString("source_type")),
		ThingsBoard: ThingsBoardConfig{
			BaseURL:    v.GetString("tb_base_url"),
			Token:      v.GetString("tb_token"),
			EntityType: v.GetString("tb_entity_type"),
			EntityID:   v.GetString("tb_entity_id"),
			Keys:       list(v.Get("tb_keys")),
		},

		ModelType: strings.ToLower(v.GetString("model_type")),
		ModelURL:  v.GetString("model_url"),

		Notifiers: list(v.Get("notifiers")),
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp_host"),
			Port:     v.GetInt("smtp_port"),
			Username: v.GetString("smtp_user"),
			Password: v.GetString("smtp_pass"),
			From:     v.GetString("smtp_from"),
			To:       list(v.Get("smtp_to")),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt_broker"),
			Topic:    v.GetString("mqtt_topic"),
			Username: v.GetString("mqtt_username"),
			Password: v.GetString("mqtt_password"),
			ClientID: v.GetString("mqtt_client_id"),
			TLS:      v.GetBool("mqtt_tls"),
			TLSCert:  v.GetString("mqtt_tls_cert"),
			TLSKey:   v.GetString("mqtt_tls_key"),
			TLSCA:    v.GetString("mqtt_tls_ca"),
		},

		GRPCPort: v.GetString("grpc_port"),
		TLSCert:  v.GetString("tls_cert"),
		TLSKey:   v.GetString("tls_key"),
		TLSCA:    v.GetString("tls_ca"),

		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),
	}
	for i, n := range cfg.Notifiers {
		cfg.Notifiers[i] = strings.ToLower(n)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seconds accepts a bare number of seconds or a Go duration string
func seconds(raw any) (time.Duration, error) {
	switch val := raw.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(val)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
		return time.ParseDuration(s)
	default:
		return 0, fmt.Errorf("unsupported value %v", raw)
	}
}

// list accepts a comma-separated string or a YAML sequence
func list(raw any) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
