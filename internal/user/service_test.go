package user

import (
	"context"
	"testing"

	"github.com/ola-fintech/microcredit/internal/apperror"
)

func TestRegisterAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		UID:            "user-1",
		Username:       "amelia",
		DocumentType:   "CC",
		DocumentNumber: "10203040",
		Email:          "amelia@example.com",
		PhoneNumber:    "+573001112233",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created == nil || created.UID != "user-1" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected registered user: %+v", created)
	}

	found, err := svc.GetByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("get by uid: %v", err)
	}
	if found == nil || found.Email != "amelia@example.com" {
		t.Fatalf("unexpected lookup result: %+v", found)
	}

	if missing, err := svc.GetByUID(ctx, "nobody"); err != nil || missing != nil {
		t.Fatalf("expected nil for unknown uid, got %+v err=%v", missing, err)
	}
}

func TestCheckCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		UID:            "user-1",
		DocumentNumber: "10203040",
		Email:          "amelia@example.com",
		PhoneNumber:    "+573001112233",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	check, err := svc.CheckCredentials(ctx, "10203040", "+570000000000", "new@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !check.DocumentExists || check.PhoneExists || check.EmailExists {
		t.Fatalf("expected only document taken, got %+v", check)
	}

	check, err = svc.CheckCredentials(ctx, "99999999", "+573001112233", "amelia@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if check.DocumentExists || !check.PhoneExists || !check.EmailExists {
		t.Fatalf("expected phone and email taken, got %+v", check)
	}

	check, err = svc.CheckCredentials(ctx, "99999999", "+570000000000", "new@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if check.DocumentExists || check.PhoneExists || check.EmailExists {
		t.Fatalf("expected nothing taken, got %+v", check)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{UID: "user-1", DocumentNumber: "10203040"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	personal := PersonalInfo{FirstName: "Amelia", LastName: "Reyes", City: "Bogota"}
	professional := ProfessionalInfo{Occupation: "engineer", Stratum: "4"}
	updated, err := svc.UpdateProfile(ctx, "user-1", personal, professional)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.PersonalInfo == nil || updated.PersonalInfo.FirstName != "Amelia" {
		t.Fatalf("personal info not stored: %+v", updated)
	}
	if updated.ProfessionalInfo == nil || updated.ProfessionalInfo.Occupation != "engineer" {
		t.Fatalf("professional info not stored: %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, "nobody", personal, professional); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateBankAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{UID: "user-1", DocumentNumber: "10203040"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	account := BankAccount{AccountType: "savings", Number: "1234567890", Institution: "Bancolombia"}
	updated, err := svc.UpdateBankAccount(ctx, "user-1", account)
	if err != nil {
		t.Fatalf("update bank account: %v", err)
	}
	if updated.BankAccount == nil || updated.BankAccount.Number != "1234567890" {
		t.Fatalf("bank account not stored: %+v", updated)
	}

	if _, err := svc.UpdateBankAccount(ctx, "nobody", account); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
