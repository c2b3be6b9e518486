package usecase

import (
	"fmt"
	"strings"

	"dorm-link/pkg/queue"
)

const eventDateLayout = "January 2, 2006 at 15:04"

func eventOwnerMessage(e *queue.EventCreated) (string, string) {
	title := "Event Scheduled Successfully"
	message := fmt.Sprintf("Your event %q has been scheduled for %s.", e.Name, e.Date.Format(eventDateLayout))
	return title, message
}

func eventAudienceMessage(e *queue.EventCreated) (string, string) {
	title := "New Event Available"
	var message string
	if e.IsPublic {
		message = fmt.Sprintf("A new public event %q is happening on %s. Everyone is welcome!", e.Name, e.Date.Format(eventDateLayout))
	} else {
		message = fmt.Sprintf("A new private event %q is scheduled for %s. Check with the organizer if it applies to you.", e.Name, e.Date.Format(eventDateLayout))
	}
	return title, message
}

// inspectionMessage picks a per-status template. Status matching is
// case-insensitive; unknown statuses fall through to a generic update.
func inspectionMessage(e *queue.RoomInspectionStatusUpdated) (string, string) {
	var title, message string

	switch strings.ToLower(e.NewStatus) {
	case "confirmed":
		title = "Inspection Passed"
		message = fmt.Sprintf("Room %s (%s, floor %d) passed the %q inspection. Great job keeping your room in shape!",
			e.RoomNumber, e.Building, e.Floor, e.InspectionName)
	case "notconfirmed":
		title = "Inspection Issues Found"
		message = fmt.Sprintf("The %q inspection found issues in room %s (%s, floor %d). Please address them before the follow-up.",
			e.InspectionName, e.RoomNumber, e.Building, e.Floor)
	case "noaccess":
		title = "Inspection Missed"
		message = fmt.Sprintf("The inspector could not access room %s (%s, floor %d) during the %q inspection. Please contact the administration to reschedule.",
			e.RoomNumber, e.Building, e.Floor, e.InspectionName)
	default:
		title = "Inspection Update"
		message = fmt.Sprintf("Inspection %q for room %s (%s, floor %d) has a new status: %s.",
			e.InspectionName, e.RoomNumber, e.Building, e.Floor, e.NewStatus)
	}

	if e.Comment != nil && strings.TrimSpace(*e.Comment) != "" {
		message += fmt.Sprintf("\n\nInspector notes: %s", *e.Comment)
	}

	return title, message
}
