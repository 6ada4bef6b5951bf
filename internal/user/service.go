package user

import (
	"context"
	"time"

	"github.com/ola-fintech/microcredit/internal/apperror"
)

// Service manages applicant registration and profile updates.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures data required to register an applicant.
type RegisterInput struct {
	UID            string
	Username       string
	DocumentType   string
	DocumentNumber string
	Email          string
	PhoneNumber    string
}

// CredentialCheck reports which registration credentials are already taken.
type CredentialCheck struct {
	PhoneExists    bool `json:"phoneExists"`
	DocumentExists bool `json:"documentExists"`
	EmailExists    bool `json:"emailExists"`
}

// Register stores a new applicant and returns the persisted record.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	u := User{
		UID:            input.UID,
		Username:       input.Username,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperror.Internal(err)
	}
	created, err := s.repo.FindByDocument(ctx, input.DocumentNumber)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return created, nil
}

// GetByUID returns the user for the identity provider UID, or nil.
func (s *Service) GetByUID(ctx context.Context, uid string) (*User, error) {
	u, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return u, nil
}

// GetByEmail returns the user owning the email address, or nil.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return u, nil
}

// CheckCredentials reports whether the phone, document or email are already registered.
func (s *Service) CheckCredentials(ctx context.Context, documentNumber, phoneNumber, email string) (CredentialCheck, error) {
	matches, err := s.repo.FindMatching(ctx, documentNumber, phoneNumber, email)
	if err != nil {
		return CredentialCheck{}, apperror.Internal(err)
	}
	var check CredentialCheck
	for _, u := range matches {
		if u.PhoneNumber == phoneNumber {
			check.PhoneExists = true
		}
		if u.DocumentNumber == documentNumber {
			check.DocumentExists = true
		}
		if u.Email == email {
			check.EmailExists = true
		}
	}
	return check, nil
}

// UpdateProfile replaces the personal and professional sub-documents.
func (s *Service) UpdateProfile(ctx context.Context, uid string, personal PersonalInfo, professional ProfessionalInfo) (*User, error) {
	updated, err := s.repo.UpdateProfile(ctx, uid, &personal, &professional)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if updated == nil {
		return nil, apperror.NotFound("user not found")
	}
	return updated, nil
}

// UpdateBankAccount replaces the disbursement account sub-document.
func (s *Service) UpdateBankAccount(ctx context.Context, uid string, account BankAccount) (*User, error) {
	updated, err := s.repo.UpdateBankAccount(ctx, uid, account)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if updated == nil {
		return nil, apperror.NotFound("user not found")
	}
	return updated, nil
}
