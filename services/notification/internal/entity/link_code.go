package entity

import "time"

// LinkCode is a short-lived one-time code binding a user account to an
// external chat identity. Single-use; expiry is reached by time passing,
// never by a write.
type LinkCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
