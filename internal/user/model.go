package user

import "time"

// Onboarding statuses mirrored onto the user row by back-office tooling.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// User represents a registered applicant. The record is owned by the
// identity provider; this service reads it to drive OTP delivery and the
// admin console, and only ever touches the profile sub-documents.
type User struct {
	UID            string `json:"uid"`
	Username       string `json:"username"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Admin          bool   `json:"admin"`
	Status         string `json:"status,omitempty"`
	FinancialCheck string `json:"financialCheck,omitempty"`

	PersonalInfo     *PersonalInfo     `json:"personalInfo,omitempty"`
	ProfessionalInfo *ProfessionalInfo `json:"professionalInfo,omitempty"`
	BankAccount      *BankAccount      `json:"bankAccount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// PersonalInfo holds the applicant's identity details collected after registration.
type PersonalInfo struct {
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName,omitempty"`
	LastName       string `json:"lastName"`
	SecondLastName string `json:"secondLastName,omitempty"`
	MaritalStatus  string `json:"maritalStatus"`
	BirthDate      string `json:"birthDate"`
	Gender         string `json:"gender"`
	EducationLevel string `json:"educationLevel"`
	Department     string `json:"department"`
	City           string `json:"city"`
}

// ProfessionalInfo holds occupation details used for credit scoring.
type ProfessionalInfo struct {
	Occupation       string `json:"occupation"`
	EconomicActivity string `json:"economicActivity"`
	Stratum          string `json:"stratum"`
	HasBankAccount   string `json:"hasBankAccount"`
	CreditStanding   string `json:"creditStanding"`
	PhoneTenure      string `json:"phoneTenure"`
}

// BankAccount holds the disbursement account.
type BankAccount struct {
	AccountType string `json:"accountType"`
	Number      string `json:"accountNumber"`
	Institution string `json:"accountInstitution"`
}

// Filter narrows admin user listings.
type Filter struct {
	// SearchTerm matches username, email or document number, case-insensitively.
	SearchTerm string
	// Status restricts to users whose status equals the value; empty means all.
	Status string
	Skip   int
	Limit  int
}
