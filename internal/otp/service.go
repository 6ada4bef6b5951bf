package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/ola-fintech/microcredit/internal/apperror"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/notification"
	"github.com/ola-fintech/microcredit/internal/user"
)

// ErrInvalidCode is returned for a missing record and for a mismatch alike,
// so callers cannot probe which codes exist.
var ErrInvalidCode = apperror.InvalidCode()

const smsBody = "Your Ola Fintech access code is %s"

// Service issues and verifies one-time codes.
//
// Codes do not expire: verification succeeds however old the stored code
// is, matching the historical behavior of the platform. A code is only
// invalidated by a successful verification or by a later issuance.
type Service struct {
	repo    Repository
	users   user.Repository
	log     message.Repository
	gateway notification.Gateway
	logger  *slog.Logger
}

// NewService creates a new OTP service.
func NewService(repo Repository, users user.Repository, log message.Repository, gateway notification.Gateway, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, log: log, gateway: gateway, logger: logger}
}

// Issue generates a six digit code, delivers it by SMS and stores it,
// superseding any previous code for the user. The record is only persisted
// after the gateway confirms delivery; a failed send leaves any previous
// code in place and surfaces as a delivery error.
func (s *Service) Issue(ctx context.Context, uid string) error {
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return apperror.Internal(err)
	}
	if u == nil {
		return apperror.NotFound("user not found")
	}

	code, err := generateCode()
	if err != nil {
		return apperror.Internal(err)
	}

	body := fmt.Sprintf(smsBody, code)
	delivery, err := s.gateway.SendSMS(ctx, u.PhoneNumber, body)
	if err != nil {
		s.logDelivery(ctx, message.Message{
			ID:          uuid.NewString(),
			UID:         uid,
			Type:        notification.ChannelSMS,
			Status:      message.StatusFailed,
			Destination: u.PhoneNumber,
			Body:        body,
			Error:       err.Error(),
			CreatedAt:   time.Now().UTC(),
		})
		return apperror.DeliveryFailed(err)
	}

	s.logDelivery(ctx, message.Message{
		ID:          uuid.NewString(),
		UID:         uid,
		Type:        notification.ChannelSMS,
		Status:      message.StatusSent,
		Destination: u.PhoneNumber,
		Body:        body,
		ProviderRef: delivery.ProviderRef,
		CreatedAt:   delivery.SentAt,
	})

	rec := Record{UID: uid, Code: code, IssuedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Verify consumes the stored code for the uid. The code is single use: a
// successful verification deletes it, and a concurrent verification of the
// same code fails.
func (s *Service) Verify(ctx context.Context, uid, code string) error {
	rec, err := s.repo.Find(ctx, uid)
	if err != nil {
		return apperror.Internal(err)
	}
	if rec == nil || rec.Code != code {
		return ErrInvalidCode
	}

	deleted, err := s.repo.Delete(ctx, uid, code)
	if err != nil {
		return apperror.Internal(err)
	}
	if !deleted {
		// Lost the race against another verification or a reissue.
		return ErrInvalidCode
	}
	return nil
}

// logDelivery appends to the message log. The log is an audit trail for the
// admin console; failing to write it must not fail the operation.
func (s *Service) logDelivery(ctx context.Context, m message.Message) {
	if err := s.log.Insert(ctx, m); err != nil && s.logger != nil {
		s.logger.Warn("record message", "uid", m.UID, "error", err)
	}
}

// generateCode draws a uniform random integer in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
