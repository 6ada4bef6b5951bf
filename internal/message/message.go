package message

import "time"

// Delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Message is one delivery attempt to a user, kept for the admin console.
type Message struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Type        string    `json:"messageType"`
	Status      string    `json:"status"`
	Destination string    `json:"destination"`
	Body        string    `json:"body"`
	ProviderRef string    `json:"providerRef,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
