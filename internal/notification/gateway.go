package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/ola-fintech/microcredit/internal/config"
)

// ProviderGateway sends SMS through the provider's REST endpoint and email
// through SMTP.
type ProviderGateway struct {
	cfg    config.Config
	client *http.Client
}

// NewProviderGateway builds a gateway from configuration.
func NewProviderGateway(cfg config.Config) *ProviderGateway {
	return &ProviderGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type smsResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

// SendSMS posts the message to the SMS provider and confirms acceptance.
func (g *ProviderGateway) SendSMS(ctx context.Context, to, body string) (Delivery, error) {
	payload, err := json.Marshal(smsRequest{From: g.cfg.SMSSender, To: to, Body: body})
	if err != nil {
		return Delivery{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.SMSGatewayURL, bytes.NewReader(payload))
	if err != nil {
		return Delivery{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.SMSGatewayToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return Delivery{}, fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	var decoded smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Delivery{}, fmt.Errorf("sms gateway response: %w", err)
	}

	if resp.StatusCode >= 300 || decoded.Status == "failed" {
		return Delivery{}, fmt.Errorf("sms gateway rejected message: status=%d %s", resp.StatusCode, decoded.Error)
	}

	return Delivery{ProviderRef: decoded.Reference, Channel: ChannelSMS, SentAt: time.Now().UTC()}, nil
}

// SendEmail delivers an HTML email over SMTP.
func (g *ProviderGateway) SendEmail(_ context.Context, to, subject, htmlBody string) (Delivery, error) {
	e := email.NewEmail()
	e.From = g.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	addr := fmt.Sprintf("%s:%s", g.cfg.SMTPHost, g.cfg.SMTPPort)
	auth := smtp.PlainAuth("", g.cfg.SMTPUsername, g.cfg.SMTPPassword, g.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return Delivery{}, fmt.Errorf("send email: %w", err)
	}

	return Delivery{ProviderRef: to, Channel: ChannelEmail, SentAt: time.Now().UTC()}, nil
}
