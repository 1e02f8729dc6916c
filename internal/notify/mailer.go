// internal/notify/mailer.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

// BreakerMailer stops calling a failing relay for a cool-down period.
type BreakerMailer struct {
	next    Mailer
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerMailer wraps next with a circuit breaker that opens after
// consecutiveFailures and half-opens after timeout.
func NewBreakerMailer(next Mailer, consecutiveFailures uint32, timeout time.Duration, logger *zap.Logger) *BreakerMailer {
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("mail circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerMailer{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Send implements Mailer.
func (b *BreakerMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, to, subject, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("mail relay unavailable: %w", err)
	}
	return err
}

// State reports the breaker state.
func (b *BreakerMailer) State() gobreaker.State {
	return b.breaker.State()
}

// LogMailer writes notices to the log instead of sending them. It is used
// when no SMTP relay is configured.
type LogMailer struct {
	Logger *zap.Logger
}

// Send implements Mailer.
func (m LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Logger.Info("allocation notice (no SMTP relay configured)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
