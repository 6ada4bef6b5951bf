package credit

import "fmt"

// Status is the lifecycle state of a credit request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusActive   Status = "active"
	StatusPaid     Status = "paid"
	StatusExtended Status = "extended"
)

// transitions is the full lifecycle. Creation always lands on pending;
// every other move is performed by back-office decisions.
var transitions = map[Status][]Status{
	StatusPending:  {StatusActive, StatusRejected},
	StatusActive:   {StatusPaid, StatusExtended},
	StatusExtended: {StatusActive, StatusPaid},
}

// Blocking reports whether a request in this status prevents the user from
// opening another one.
func (s Status) Blocking() bool {
	switch s {
	case StatusPending, StatusActive, StatusExtended:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the lifecycle allows moving to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus validates a status received over the wire.
func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusPending, StatusRejected, StatusActive, StatusPaid, StatusExtended:
		return Status(v), nil
	default:
		return "", fmt.Errorf("unknown credit status %q", v)
	}
}
