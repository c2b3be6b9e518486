package entity

import "time"

// ChatLink binds a user account to an external chat identity. The mapping is
// bijective: at most one row per user and at most one row per chat at any time.
type ChatLink struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	ChatID   string    `json:"chat_id"`
	LinkedAt time.Time `json:"linked_at"`
}

type LinkStatus struct {
	Linked   bool       `json:"linked"`
	LinkedAt *time.Time `json:"linked_at,omitempty"`
}
