package entity

import "time"

// Notification types residents can opt in to. Absent preference rows mean the
// type is disabled; rows are only materialized on the first explicit update.
const (
	TypeEvents            = "events"
	TypeInspectionResults = "inspection_results"
)

// Delivery channels a user can bind.
const (
	ChannelTelegram = "telegram"
)

// Notification is one append-only ledger row. Only IsRead is ever mutated.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type TypeSetting struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

type ChannelSetting struct {
	Channel    string  `json:"channel"`
	Enabled    bool    `json:"enabled"`
	ExternalID *string `json:"external_id,omitempty"`
}

// NotificationSettings is the snapshot returned by the settings endpoint.
type NotificationSettings struct {
	UserID   string           `json:"user_id"`
	Settings []TypeSetting    `json:"settings"`
	Channels []ChannelSetting `json:"channels"`
}
