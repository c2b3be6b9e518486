package queue

import "time"

// EventCreated is published by the event service when a dorm event is scheduled.
type EventCreated struct {
	EventID    string    `json:"event_id"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	OwnerID    string    `json:"owner_id"`
	IsPublic   bool      `json:"is_public"`
	BuildingID *string   `json:"building_id,omitempty"`
	RoomID     *string   `json:"room_id,omitempty"`
}

// RoomInspectionStatusUpdated is published by the inspection service when an
// inspector records a result for a room.
type RoomInspectionStatusUpdated struct {
	InspectionID     string  `json:"inspection_id"`
	RoomInspectionID string  `json:"room_inspection_id"`
	RoomID           string  `json:"room_id"`
	InspectionName   string  `json:"inspection_name"`
	InspectionType   string  `json:"inspection_type"`
	NewStatus        string  `json:"new_status"`
	Comment          *string `json:"comment,omitempty"`
	RoomNumber       string  `json:"room_number"`
	Building         string  `json:"building"`
	Floor            int     `json:"floor"`
}

// NotificationCreated is the handoff between the notification service and any
// channel-specific delivery consumer. One message per persisted ledger row.
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
