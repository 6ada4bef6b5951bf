package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ola-fintech/microcredit/internal/credit"
	"github.com/ola-fintech/microcredit/internal/logging"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/user"
)

type emailRecorder struct {
	to       []string
	subjects []string
	fail     bool
}

func (g *emailRecorder) SendSMS(_ context.Context, _, _ string) (Delivery, error) {
	return Delivery{}, errors.New("not used")
}

func (g *emailRecorder) SendEmail(_ context.Context, to, subject, _ string) (Delivery, error) {
	if g.fail {
		return Delivery{}, errors.New("smtp unavailable")
	}
	g.to = append(g.to, to)
	g.subjects = append(g.subjects, subject)
	return Delivery{ProviderRef: to, Channel: ChannelEmail, SentAt: time.Now().UTC()}, nil
}

func approvedRequest(uid string) credit.Request {
	amount := 250_000.0
	return credit.Request{
		ID:              "req-1",
		UID:             uid,
		Status:          credit.StatusActive,
		RequestedAmount: 300_000,
		ApprovedAmount:  &amount,
		DueDate:         "15/10/2026",
	}
}

func newTestMailer(gateway Gateway) (*DecisionMailer, message.Repository) {
	users := user.NewMemoryRepository()
	_ = users.Create(context.Background(), user.User{
		UID:   "user-1",
		Email: "amelia@example.com",
	})
	_ = users.Create(context.Background(), user.User{UID: "user-2"})
	log := message.NewMemoryRepository()
	return NewDecisionMailer(users, log, gateway, logging.Discard()), log
}

func TestCreditDecidedSendsEmail(t *testing.T) {
	gateway := &emailRecorder{}
	mailer, log := newTestMailer(gateway)
	ctx := context.Background()

	mailer.CreditDecided(ctx, approvedRequest("user-1"))

	if len(gateway.to) != 1 || gateway.to[0] != "amelia@example.com" {
		t.Fatalf("expected one email to the applicant, got %+v", gateway.to)
	}
	if !strings.Contains(gateway.subjects[0], "approved") {
		t.Fatalf("unexpected subject %q", gateway.subjects[0])
	}

	logged, err := log.ListByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(logged) != 1 || logged[0].Status != message.StatusSent || logged[0].Type != ChannelEmail {
		t.Fatalf("unexpected delivery log: %+v", logged)
	}
}

func TestCreditDecidedLogsFailure(t *testing.T) {
	gateway := &emailRecorder{fail: true}
	mailer, log := newTestMailer(gateway)
	ctx := context.Background()

	mailer.CreditDecided(ctx, approvedRequest("user-1"))

	logged, err := log.ListByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(logged) != 1 || logged[0].Status != message.StatusFailed || logged[0].Error == "" {
		t.Fatalf("expected a failed entry with detail, got %+v", logged)
	}
}

func TestCreditDecidedSkipsWithoutAddress(t *testing.T) {
	gateway := &emailRecorder{}
	mailer, log := newTestMailer(gateway)
	ctx := context.Background()

	// Unknown uid and a user without an email address both stay silent.
	mailer.CreditDecided(ctx, approvedRequest("ghost"))
	mailer.CreditDecided(ctx, approvedRequest("user-2"))

	if len(gateway.to) != 0 {
		t.Fatalf("no email expected, got %+v", gateway.to)
	}
	for _, uid := range []string{"ghost", "user-2"} {
		if logged, _ := log.ListByUID(ctx, uid); len(logged) != 0 {
			t.Fatalf("no log entry expected for %s, got %+v", uid, logged)
		}
	}
}

func TestDecisionEmailSubjects(t *testing.T) {
	cases := map[credit.Status]string{
		credit.StatusActive:   "approved",
		credit.StatusRejected: "declined",
		credit.StatusPaid:     "paid",
		credit.StatusExtended: "extended",
	}
	for status, want := range cases {
		req := approvedRequest("user-1")
		req.Status = status
		subject, body := decisionEmail(req)
		if !strings.Contains(subject, want) {
			t.Errorf("subject for %s = %q, want it to mention %q", status, subject, want)
		}
		if body == "" {
			t.Errorf("empty body for %s", status)
		}
	}
}
