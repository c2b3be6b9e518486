package usecase

import (
	"testing"
	"time"

	"dorm-link/pkg/queue"

	"github.com/stretchr/testify/assert"
)

func TestEventOwnerMessage(t *testing.T) {
	event := &queue.EventCreated{
		EventID: "e1",
		Name:    "Movie Night",
		Date:    time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		OwnerID: "u1",
	}

	title, message := eventOwnerMessage(event)

	assert.Equal(t, "Event Scheduled Successfully", title)
	assert.Contains(t, message, `"Movie Night"`)
	assert.Contains(t, message, "September 12, 2026 at 19:30")
}

func TestEventAudienceMessage_Public(t *testing.T) {
	event := &queue.EventCreated{
		Name:     "Cleanup Day",
		Date:     time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		IsPublic: true,
	}

	title, message := eventAudienceMessage(event)

	assert.Equal(t, "New Event Available", title)
	assert.Contains(t, message, "public event")
	assert.Contains(t, message, "Everyone is welcome!")
}

func TestEventAudienceMessage_Private(t *testing.T) {
	event := &queue.EventCreated{
		Name:     "Floor Meeting",
		Date:     time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		IsPublic: false,
	}

	_, message := eventAudienceMessage(event)

	assert.Contains(t, message, "private event")
	assert.NotContains(t, message, "Everyone is welcome!")
}

func TestInspectionMessage_Statuses(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		wantTitle string
	}{
		{"confirmed", "confirmed", "Inspection Passed"},
		{"confirmed uppercase", "CONFIRMED", "Inspection Passed"},
		{"not confirmed", "notconfirmed", "Inspection Issues Found"},
		{"not confirmed mixed case", "NotConfirmed", "Inspection Issues Found"},
		{"no access", "noaccess", "Inspection Missed"},
		{"unknown status", "pending", "Inspection Update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &queue.RoomInspectionStatusUpdated{
				InspectionName: "Weekly Check",
				RoomNumber:     "304",
				Building:       "Building A",
				Floor:          3,
				NewStatus:      tt.status,
			}

			title, message := inspectionMessage(event)

			assert.Equal(t, tt.wantTitle, title)
			assert.Contains(t, message, "304")
			assert.Contains(t, message, "Building A")
		})
	}
}

func TestInspectionMessage_UnknownStatusIncludesRawStatus(t *testing.T) {
	event := &queue.RoomInspectionStatusUpdated{
		InspectionName: "Weekly Check",
		RoomNumber:     "101",
		Building:       "Building B",
		Floor:          1,
		NewStatus:      "rescheduled",
	}

	_, message := inspectionMessage(event)

	assert.Contains(t, message, "rescheduled")
}

func TestInspectionMessage_CommentAppended(t *testing.T) {
	comment := "Broken window latch"
	event := &queue.RoomInspectionStatusUpdated{
		InspectionName: "Weekly Check",
		RoomNumber:     "304",
		Building:       "Building A",
		Floor:          3,
		NewStatus:      "notconfirmed",
		Comment:        &comment,
	}

	_, message := inspectionMessage(event)

	assert.Contains(t, message, "\n\nInspector notes: Broken window latch")
}

func TestInspectionMessage_BlankCommentIgnored(t *testing.T) {
	comment := "   "
	event := &queue.RoomInspectionStatusUpdated{
		InspectionName: "Weekly Check",
		RoomNumber:     "304",
		Building:       "Building A",
		Floor:          3,
		NewStatus:      "confirmed",
		Comment:        &comment,
	}

	_, message := inspectionMessage(event)

	assert.NotContains(t, message, "Inspector notes")
}
