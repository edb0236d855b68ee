package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"

	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"

	"github.com/nampham423/IOT-All/internal/domain"
)

// MQTTConfig holds broker settings for alert publishing
type MQTTConfig struct {
	Broker   string // host:port
	Topic    string
	Username string
	Password string
	ClientID string      // generated when empty
	TLS      *tls.Config // nil for plain TCP
}

// MQTTNotifier publishes each alert as a JSON sample.
// Alerts are infrequent, so every Notify opens and closes its own session.
type MQTTNotifier struct {
	cfg MQTTConfig
}

// NewMQTTNotifier creates an MQTT v5 alert publisher
func NewMQTTNotifier(cfg MQTTConfig) (*MQTTNotifier, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker address is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = "envwindow/alerts"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "envwindow-" + uuid.NewString()
	}
	return &MQTTNotifier{cfg: cfg}, nil
}

// Notify implements ports.Notifier
func (n *MQTTNotifier) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	conn, err := n.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach mqtt broker %s: %w", n.cfg.Broker, err)
	}

	client := paho.NewClient(paho.ClientConfig{
		ClientID: n.cfg.ClientID,
		Conn:     conn,
	})

	_, err = client.Connect(ctx, &paho.Connect{
		ClientID:     n.cfg.ClientID,
		CleanStart:   true,
		KeepAlive:    30,
		Username:     n.cfg.Username,
		UsernameFlag: n.cfg.Username != "",
		Password:     []byte(n.cfg.Password),
		PasswordFlag: n.cfg.Password != "",
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer client.Disconnect(&paho.Disconnect{ReasonCode: 0})

	_, err = client.Publish(ctx, &paho.Publish{
		Topic:   n.cfg.Topic,
		QoS:     1,
		Payload: payload,
		Properties: &paho.PublishProperties{
			ContentType: "application/json",
		},
	})
	if err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", n.cfg.Topic, err)
	}
	return nil
}

func (n *MQTTNotifier) dial(ctx context.Context) (net.Conn, error) {
	if n.cfg.TLS != nil {
		d := tls.Dialer{Config: n.cfg.TLS}
		return d.DialContext(ctx, "tcp", n.cfg.Broker)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", n.cfg.Broker)
}
