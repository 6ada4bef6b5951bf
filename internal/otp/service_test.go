package otp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ola-fintech/microcredit/internal/apperror"
	"github.com/ola-fintech/microcredit/internal/logging"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/notification"
	"github.com/ola-fintech/microcredit/internal/user"
)

// testGateway captures sent messages and can be switched into failure mode.
type testGateway struct {
	bodies []string
	fail   bool
}

func (g *testGateway) SendSMS(_ context.Context, _, body string) (notification.Delivery, error) {
	if g.fail {
		return notification.Delivery{}, errors.New("provider unavailable")
	}
	g.bodies = append(g.bodies, body)
	return notification.Delivery{
		ProviderRef: "test-ref",
		Channel:     notification.ChannelSMS,
		SentAt:      time.Now().UTC(),
	}, nil
}

func (g *testGateway) SendEmail(_ context.Context, _, _, _ string) (notification.Delivery, error) {
	if g.fail {
		return notification.Delivery{}, errors.New("provider unavailable")
	}
	return notification.Delivery{
		ProviderRef: "test-ref",
		Channel:     notification.ChannelEmail,
		SentAt:      time.Now().UTC(),
	}, nil
}

// lastCode extracts the six digit code from the most recent SMS body.
func (g *testGateway) lastCode(t *testing.T) string {
	t.Helper()
	if len(g.bodies) == 0 {
		t.Fatal("no SMS was sent")
	}
	body := g.bodies[len(g.bodies)-1]
	code := body[strings.LastIndex(body, " ")+1:]
	if len(code) != 6 {
		t.Fatalf("unexpected SMS body %q", body)
	}
	return code
}

func newTestService(gateway notification.Gateway) (*Service, message.Repository) {
	users := user.NewMemoryRepository()
	_ = users.Create(context.Background(), user.User{
		UID:         "user-1",
		Username:    "amelia",
		PhoneNumber: "+573001112233",
		Email:       "amelia@example.com",
	})
	log := message.NewMemoryRepository()
	return NewService(NewMemoryRepository(), users, log, gateway, logging.Discard()), log
}

func TestIssueAndVerify(t *testing.T) {
	gateway := &testGateway{}
	svc, log := newTestService(gateway)
	ctx := context.Background()

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	code := gateway.lastCode(t)

	if err := svc.Verify(ctx, "user-1", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	sent, err := log.ListByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(sent) != 1 || sent[0].Status != message.StatusSent || sent[0].ProviderRef != "test-ref" {
		t.Fatalf("unexpected delivery log: %+v", sent)
	}
}

func TestIssueUnknownUser(t *testing.T) {
	svc, _ := newTestService(&testGateway{})

	err := svc.Issue(context.Background(), "nobody")
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	gateway := &testGateway{}
	svc, _ := newTestService(gateway)
	ctx := context.Background()

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	code := gateway.lastCode(t)

	if err := svc.Verify(ctx, "user-1", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if err := svc.Verify(ctx, "user-1", code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("replay should fail, got %v", err)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	gateway := &testGateway{}
	svc, _ := newTestService(gateway)
	ctx := context.Background()

	if err := svc.Verify(ctx, "user-1", "123456"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("no code issued yet, got %v", err)
	}

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	code := gateway.lastCode(t)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := svc.Verify(ctx, "user-1", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("wrong code should fail, got %v", err)
	}

	// The stored code survives failed attempts.
	if err := svc.Verify(ctx, "user-1", code); err != nil {
		t.Fatalf("correct code after failed attempt: %v", err)
	}
}

func TestReissueSupersedes(t *testing.T) {
	gateway := &testGateway{}
	svc, _ := newTestService(gateway)
	ctx := context.Background()

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	first := gateway.lastCode(t)

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("second issue: %v", err)
	}
	second := gateway.lastCode(t)

	if first != second {
		if err := svc.Verify(ctx, "user-1", first); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("superseded code should fail, got %v", err)
		}
	}
	if err := svc.Verify(ctx, "user-1", second); err != nil {
		t.Fatalf("latest code: %v", err)
	}
}

func TestIssueDeliveryFailure(t *testing.T) {
	gateway := &testGateway{}
	svc, log := newTestService(gateway)
	ctx := context.Background()

	if err := svc.Issue(ctx, "user-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	code := gateway.lastCode(t)

	gateway.fail = true
	err := svc.Issue(ctx, "user-1")
	if apperror.KindOf(err) != apperror.KindDeliveryFailed {
		t.Fatalf("expected delivery failure, got %v", err)
	}

	// The failed send must not replace the previously stored code.
	if err := svc.Verify(ctx, "user-1", code); err != nil {
		t.Fatalf("previous code should survive a failed send: %v", err)
	}

	sent, err := log.ListByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	var failed int
	for _, m := range sent {
		if m.Status == message.StatusFailed {
			failed++
			if m.Error == "" {
				t.Fatalf("failed message without error detail: %+v", m)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected one failed delivery in the log, got %d", failed)
	}
}

func TestDeleteRequiresMatchingCode(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, Record{UID: "user-1", Code: "111111", IssuedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A stale code must not consume a record issued after it was read.
	deleted, err := repo.Delete(ctx, "user-1", "222222")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatal("delete with a different code must not remove the record")
	}
	if rec, err := repo.Find(ctx, "user-1"); err != nil || rec == nil || rec.Code != "111111" {
		t.Fatalf("record should survive, got %+v err=%v", rec, err)
	}

	deleted, err = repo.Delete(ctx, "user-1", "111111")
	if err != nil || !deleted {
		t.Fatalf("matching delete: deleted=%v err=%v", deleted, err)
	}
	if rec, err := repo.Find(ctx, "user-1"); err != nil || rec != nil {
		t.Fatalf("record should be gone, got %+v err=%v", rec, err)
	}
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 || code[0] == '0' {
			t.Fatalf("code out of range: %q", code)
		}
	}
}
