package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/nampham423/IOT-All/internal/domain"
)

// EmailConfig holds SMTP settings for alert mail
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// sendFunc delivers a fully formed message
type sendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// EmailNotifier mails predicted values over SMTP with STARTTLS
type EmailNotifier struct {
	cfg  EmailConfig
	send sendFunc
}

// NewEmailNotifier creates an SMTP notifier
func NewEmailNotifier(cfg EmailConfig) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("at least one smtp recipient is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	n := &EmailNotifier{cfg: cfg}
	n.send = n.sendSMTP
	return n, nil
}

// Notify implements ports.Notifier
func (n *EmailNotifier) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	if err := n.send(ctx, n.cfg.From, n.cfg.To, n.message(forecast)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) message(forecast domain.TelemetrySample) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: AI Alert Notification\r\n")
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&b, "\r\n")
	fmt.Fprintf(&b, "Alert from AI predictor:\r\n")
	fmt.Fprintf(&b, "  Predicted Temperature: %.2f °C\r\n", forecast.Temperature)
	fmt.Fprintf(&b, "  Predicted Humidity:    %.2f %%\r\n", forecast.Humidity)
	fmt.Fprintf(&b, "  Predicted Light:       %.2f lux\r\n", forecast.Light)
	if forecast.HasTimestamp() {
		fmt.Fprintf(&b, "  Computed at:           %s\r\n", forecast.Time().UTC().Format(time.RFC3339))
	}
	return b.Bytes()
}

// sendSMTP dials, upgrades with STARTTLS when offered, authenticates and sends
func (n *EmailNotifier) sendSMTP(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
