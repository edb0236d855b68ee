package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/eclipse/paho.golang/paho"
	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/require"

	"github.com/nampham423/IOT-All/internal/domain"
)

type recordingNotifier struct {
	calls []domain.TelemetrySample
	err   error
}

func (r *recordingNotifier) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	r.calls = append(r.calls, forecast)
	return r.err
}

func TestMulti_NotifiesAllAndJoinsErrors(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("smtp down")}
	ok := &recordingNotifier{}
	forecast := domain.NewTelemetrySample(30, 10, 10)

	err := Multi{failing, ok, LogNotifier{}}.Notify(context.Background(), forecast)
	require.ErrorContains(t, err, "smtp down")
	require.Len(t, failing.calls, 1)
	require.Equal(t, []domain.TelemetrySample{forecast}, ok.calls)

	require.NoError(t, Multi{ok}.Notify(context.Background(), forecast))
}

func TestEmailNotifier_Message(t *testing.T) {
	n, err := NewEmailNotifier(EmailConfig{
		Host:     "smtp.example.com",
		Username: "alerts@example.com",
		To:       []string{"ops@example.com", "oncall@example.com"},
	})
	require.NoError(t, err)

	var gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.send = func(ctx context.Context, from string, to []string, msg []byte) error {
		gotFrom, gotTo, gotMsg = from, to, msg
		return nil
	}

	forecast := domain.NewTelemetrySample(30, 10.456, 2500).Stamped(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, n.Notify(context.Background(), forecast))

	require.Equal(t, "alerts@example.com", gotFrom)
	require.Equal(t, []string{"ops@example.com", "oncall@example.com"}, gotTo)

	msg := string(gotMsg)
	require.Contains(t, msg, "Subject: AI Alert Notification\r\n")
	require.Contains(t, msg, "To: ops@example.com, oncall@example.com\r\n")
	require.Contains(t, msg, "Predicted Temperature: 30.00 °C")
	require.Contains(t, msg, "Predicted Humidity:    10.46 %")
	require.Contains(t, msg, "Predicted Light:       2500.00 lux")
	require.Contains(t, msg, "2025-06-01T12:00:00Z")
}

func TestEmailNotifier_SendError(t *testing.T) {
	n, err := NewEmailNotifier(EmailConfig{Host: "smtp.example.com", To: []string{"ops@example.com"}})
	require.NoError(t, err)
	n.send = func(context.Context, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err = n.Notify(context.Background(), domain.NewTelemetrySample(30, 0, 0))
	require.ErrorContains(t, err, "connection refused")
}

func TestNewEmailNotifier_Validation(t *testing.T) {
	_, err := NewEmailNotifier(EmailConfig{To: []string{"ops@example.com"}})
	require.Error(t, err)

	_, err = NewEmailNotifier(EmailConfig{Host: "smtp.example.com"})
	require.Error(t, err)
}

// freeAddr reserves a loopback port for the in-process broker
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func startBroker(t *testing.T) string {
	t.Helper()
	addr := freeAddr(t)

	broker := mochi.New(nil)
	require.NoError(t, broker.AddHook(&auth.AllowHook{}, nil))
	require.NoError(t, broker.AddListener(listeners.NewTCP(listeners.Config{
		ID:      "test",
		Type:    "tcp",
		Address: addr,
	})))
	require.NoError(t, broker.Serve())
	t.Cleanup(func() { broker.Close() })

	return addr
}

func subscribe(ctx context.Context, t *testing.T, addr, topic string) <-chan []byte {
	t.Helper()
	received := make(chan []byte, 4)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	require.NoError(t, err)

	client := paho.NewClient(paho.ClientConfig{
		ClientID: "subscriber",
		Conn:     conn,
		OnPublishReceived: []func(paho.PublishReceived) (bool, error){
			func(pr paho.PublishReceived) (bool, error) {
				received <- pr.Packet.Payload
				return true, nil
			},
		},
	})
	_, err = client.Connect(ctx, &paho.Connect{ClientID: "subscriber", KeepAlive: 5, CleanStart: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(&paho.Disconnect{}) })

	_, err = client.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{{Topic: topic, QoS: 1}},
	})
	require.NoError(t, err)

	return received
}

func TestMQTTNotifier_Publishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	addr := startBroker(t)
	received := subscribe(ctx, t, addr, "site/alerts")

	n, err := NewMQTTNotifier(MQTTConfig{Broker: addr, Topic: "site/alerts"})
	require.NoError(t, err)

	forecast := domain.NewTelemetrySample(30, 10, 10).Stamped(time.UnixMilli(1_700_000_000_000))
	require.NoError(t, n.Notify(ctx, forecast))

	select {
	case payload := <-received:
		var got domain.TelemetrySample
		require.NoError(t, json.Unmarshal(payload, &got))
		require.Equal(t, forecast, got)
	case <-ctx.Done():
		t.Fatal("alert was not delivered")
	}
}

func TestMQTTNotifier_BrokerDown(t *testing.T) {
	n, err := NewMQTTNotifier(MQTTConfig{Broker: freeAddr(t)})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(n.cfg.ClientID, "envwindow-"))
	require.Equal(t, "envwindow/alerts", n.cfg.Topic)

	err = n.Notify(context.Background(), domain.NewTelemetrySample(30, 0, 0))
	require.ErrorContains(t, err, fmt.Sprintf("failed to reach mqtt broker %s", n.cfg.Broker))
}
