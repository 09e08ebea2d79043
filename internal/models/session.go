package models

import "time"

// LoginSession represents an active one-time login code issued to a
// messaging-channel user. At most one session is active per subject:
// issuing a new code evicts any previous one.
type LoginSession struct {
	Code        string    `json:"-"` // never serialized back to clients
	SubjectID   string    `json:"subject_id"`
	DisplayName string    `json:"display_name"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LoginCodeTTL is how long an issued code stays redeemable.
const LoginCodeTTL = 10 * time.Minute

// VerifyResult is the outcome of a login code verification attempt.
// Verification is destructive: the code is gone after the first attempt
// regardless of the outcome.
type VerifyResult struct {
	Valid       bool   `json:"valid"`
	DisplayName string `json:"name,omitempty"`
	SubjectID   string `json:"subject_id,omitempty"`
	Reason      string `json:"reason,omitempty"` // "invalid" or "expired"
}
