package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ola-fintech/microcredit/internal/credit"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/user"
)

// DecisionMailer emails applicants when back-office rules on their request,
// recording every attempt in the delivery log. Sends are best effort: a
// failed email never rolls back the decision.
type DecisionMailer struct {
	users   user.Repository
	log     message.Repository
	gateway Gateway
	logger  *slog.Logger
}

// NewDecisionMailer constructs the mailer behind credit.Notifier.
func NewDecisionMailer(users user.Repository, log message.Repository, gateway Gateway, logger *slog.Logger) *DecisionMailer {
	return &DecisionMailer{users: users, log: log, gateway: gateway, logger: logger}
}

// CreditDecided emails the applicant about the new lifecycle state.
func (m *DecisionMailer) CreditDecided(ctx context.Context, req credit.Request) {
	u, err := m.users.FindByUID(ctx, req.UID)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("decision mail lookup", "uid", req.UID, "error", err)
		}
		return
	}
	if u == nil || u.Email == "" {
		return
	}

	subject, body := decisionEmail(req)
	delivery, err := m.gateway.SendEmail(ctx, u.Email, subject, body)

	msg := message.Message{
		ID:          uuid.NewString(),
		UID:         req.UID,
		Type:        ChannelEmail,
		Destination: u.Email,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err != nil {
		msg.Status = message.StatusFailed
		msg.Error = err.Error()
		if m.logger != nil {
			m.logger.Warn("decision mail send", "uid", req.UID, "error", err)
		}
	} else {
		msg.Status = message.StatusSent
		msg.ProviderRef = delivery.ProviderRef
		msg.CreatedAt = delivery.SentAt
	}
	if err := m.log.Insert(ctx, msg); err != nil && m.logger != nil {
		m.logger.Warn("record message", "uid", req.UID, "error", err)
	}
}

func decisionEmail(req credit.Request) (subject, body string) {
	switch req.Status {
	case credit.StatusActive:
		amount := req.RequestedAmount
		if req.ApprovedAmount != nil {
			amount = *req.ApprovedAmount
		}
		return "Your credit request was approved",
			fmt.Sprintf("<p>Your credit for $%.0f was approved. The installment is due on %s.</p>", amount, req.DueDate)
	case credit.StatusRejected:
		return "Your credit request was declined",
			"<p>We could not approve your credit request at this time.</p>"
	case credit.StatusPaid:
		return "Your credit is fully paid",
			"<p>We received your payment and your credit is now closed. Thank you.</p>"
	default:
		return fmt.Sprintf("Your credit status is now %s", req.Status),
			fmt.Sprintf("<p>Your credit request status changed to %s.</p>", req.Status)
	}
}
