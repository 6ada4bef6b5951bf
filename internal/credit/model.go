package credit

import "time"

// DueDateLayout is the day/month/year form installment dates are stored in.
const DueDateLayout = "02/01/2006"

// CooldownDays is how long a rejection blocks new requests, measured from
// the OTP issued with the rejected request.
const CooldownDays = 180

// Extension records the payment terms granted by back-office after an
// extension request is approved.
type Extension struct {
	PaymentDate   string  `json:"paymentDate"`
	PaymentAmount float64 `json:"paymentAmount"`
}

// Request is a credit application and its lifecycle state. Requests are
// never deleted; status moves through the lifecycle in status.go.
type Request struct {
	ID  string `json:"id"`
	UID string `json:"uid"`

	Status Status `json:"status"`

	RequestedAmount float64 `json:"requestedAmount"`
	CurrentInterest float64 `json:"currentInterest"`
	AdminFee        float64 `json:"adminFee"`
	VAT             float64 `json:"vat"`
	TotalPayable    float64 `json:"totalPayable"`

	// DueDate is the installment date in DueDateLayout form, checked when an
	// extension is requested.
	DueDate string `json:"dueDate"`

	// OTPCode and OTPIssuedAt identify the verification code sent with this
	// request. OTPIssuedAt anchors the rejection cooldown window.
	OTPCode     string    `json:"otpCode"`
	OTPIssuedAt time.Time `json:"otpIssuedAt"`

	ApprovedAmount     *float64   `json:"approvedAmount,omitempty"`
	ExtensionRequested bool       `json:"extensionRequested"`
	Extension          *Extension `json:"extension,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Input captures data required to submit a credit request.
type Input struct {
	UID             string
	RequestedAmount float64
	CurrentInterest float64
	AdminFee        float64
	VAT             float64
	TotalPayable    float64
	DueDate         string
	OTPCode         string
	OTPIssuedAt     time.Time
}
