package credit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ola-fintech/microcredit/internal/apperror"
)

// Rule violations surfaced by the extension and decision flows.
var (
	// ErrNoActiveCredit means the user has no active credit to extend.
	ErrNoActiveCredit = apperror.BusinessRule("user has no active credit")
	// ErrExtensionWindowClosed means the installment date has already elapsed.
	ErrExtensionWindowClosed = apperror.BusinessRule("credit is not eligible for a payment extension")
	// ErrInvalidTransition means a decision would break the credit lifecycle.
	ErrInvalidTransition = apperror.BusinessRule("credit status transition not allowed")
)

// Notifier reports lifecycle outcomes to the applicant. Implementations
// must not fail the decision on delivery problems; a nil Notifier disables
// notifications.
type Notifier interface {
	CreditDecided(ctx context.Context, req Request)
}

// Service decides credit eligibility and drives the request lifecycle.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates a new credit service.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// ActiveOrRecentlyRejected returns the request that currently defines the
// user's credit standing: a blocking request if one exists, otherwise the
// most recent rejection still inside the cooldown window, otherwise nil.
func (s *Service) ActiveOrRecentlyRejected(ctx context.Context, uid string) (*Request, error) {
	blocking, err := s.repo.FindBlocking(ctx, uid)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if blocking != nil {
		return blocking, nil
	}

	rejected, err := s.repo.FindRejectedSince(ctx, uid, cooldownStart(time.Now()))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rejected, nil
}

// RequestCredit submits a new credit request. The store applies the
// eligibility checks and the insert atomically; a concurrent duplicate for
// the same uid surfaces as ErrActiveRequestExists.
func (s *Service) RequestCredit(ctx context.Context, input Input) (string, error) {
	if input.UID == "" {
		return "", apperror.BusinessRule("uid is required")
	}
	if input.RequestedAmount < 0 || input.CurrentInterest < 0 || input.AdminFee < 0 ||
		input.VAT < 0 || input.TotalPayable < 0 {
		return "", apperror.BusinessRule("amounts must be non-negative")
	}

	req := Request{
		ID:              uuid.NewString(),
		UID:             input.UID,
		Status:          StatusPending,
		RequestedAmount: input.RequestedAmount,
		CurrentInterest: input.CurrentInterest,
		AdminFee:        input.AdminFee,
		VAT:             input.VAT,
		TotalPayable:    input.TotalPayable,
		DueDate:         input.DueDate,
		OTPCode:         input.OTPCode,
		OTPIssuedAt:     input.OTPIssuedAt,
		CreatedAt:       time.Now().UTC(),
	}

	id, err := s.repo.Insert(ctx, req, cooldownStart(time.Now()))
	if err != nil {
		if errors.Is(err, ErrActiveRequestExists) || errors.Is(err, ErrCooldownActive) {
			return "", err
		}
		return "", apperror.Internal(err)
	}
	return id, nil
}

// RequestExtension flags the user's active credit for a payment extension.
// The due date must not have elapsed as of yesterday.
func (s *Service) RequestExtension(ctx context.Context, uid string) error {
	active, err := s.repo.FindActive(ctx, uid)
	if err != nil {
		return apperror.Internal(err)
	}
	if active == nil {
		return ErrNoActiveCredit
	}

	due, err := time.Parse(DueDateLayout, active.DueDate)
	if err != nil {
		return apperror.Internal(err)
	}

	yesterday := time.Now().Add(-24 * time.Hour)
	if !due.After(yesterday) {
		return ErrExtensionWindowClosed
	}

	if err := s.repo.SetExtensionRequested(ctx, active.ID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Decision captures a back-office ruling on a request.
type Decision struct {
	Status         Status
	ApprovedAmount *float64
}

// Decide applies a back-office decision, refusing moves the lifecycle does
// not allow.
func (s *Service) Decide(ctx context.Context, id string, d Decision) (*Request, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if req == nil {
		return nil, apperror.NotFound("credit request not found")
	}
	if !req.Status.CanTransition(d.Status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateDecision(ctx, id, d.Status, d.ApprovedAmount)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if updated == nil {
		return nil, apperror.NotFound("credit request not found")
	}

	if s.notifier != nil {
		s.notifier.CreditDecided(ctx, *updated)
	}
	return updated, nil
}

// History returns every request the user has made, newest first.
func (s *Service) History(ctx context.Context, uid string) ([]Request, error) {
	requests, err := s.repo.ListByUID(ctx, uid)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return requests, nil
}

func cooldownStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -CooldownDays)
}
