package notification

import (
	"context"
	"log/slog"
	"time"
)

// Channel identifies the transport a message went through.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Delivery reports a confirmed send from the provider.
type Delivery struct {
	ProviderRef string
	Channel     string
	SentAt      time.Time
}

// Gateway delivers messages to users. Implementations must return an error
// whenever delivery is not confirmed; callers rely on that to decide whether
// dependent state may be persisted.
type Gateway interface {
	SendSMS(ctx context.Context, toPhoneNumber, body string) (Delivery, error)
	SendEmail(ctx context.Context, toAddress, subject, htmlBody string) (Delivery, error)
}

// LoggerGateway is a development stub that writes messages to the logger
// and reports them as delivered.
type LoggerGateway struct {
	logger *slog.Logger
}

// NewLoggerGateway constructs a logging gateway stub.
func NewLoggerGateway(logger *slog.Logger) *LoggerGateway {
	return &LoggerGateway{logger: logger}
}

// SendSMS writes the message to the structured logger.
func (g *LoggerGateway) SendSMS(_ context.Context, to, body string) (Delivery, error) {
	if g.logger != nil {
		g.logger.Info("sms", "to", to, "body", body)
	}
	return Delivery{ProviderRef: "log", Channel: ChannelSMS, SentAt: time.Now().UTC()}, nil
}

// SendEmail writes the message to the structured logger.
func (g *LoggerGateway) SendEmail(_ context.Context, to, subject, _ string) (Delivery, error) {
	if g.logger != nil {
		g.logger.Info("email", "to", to, "subject", subject)
	}
	return Delivery{ProviderRef: "log", Channel: ChannelEmail, SentAt: time.Now().UTC()}, nil
}
