package otp

import "time"

// Record is the one-time code currently issued to a user. At most one
// record exists per uid; a new issuance supersedes the previous one.
type Record struct {
	UID      string    `json:"uid"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issuedAt"`
}
