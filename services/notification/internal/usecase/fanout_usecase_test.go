package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/service/rooms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	saved     []*entity.Notification
	createErr error
}

func (f *fakeNotificationRepo) CreateBatch(notifications []*entity.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	for i, n := range notifications {
		if n.ID == "" {
			n.ID = "n" + string(rune('0'+i))
		}
	}
	f.saved = append(f.saved, notifications...)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepo) MarkRead(userID, notificationID string) (bool, error) {
	return false, nil
}

type fakePreferenceRepo struct {
	enabledUsers []string
	listErr      error
}

func (f *fakePreferenceRepo) ListTypeSettings(userID string) ([]entity.TypeSetting, error) {
	return nil, nil
}

func (f *fakePreferenceRepo) ListChannelSettings(userID string) ([]entity.ChannelSetting, error) {
	return nil, nil
}

func (f *fakePreferenceRepo) SetType(userID, notificationType string, enabled bool) error {
	return nil
}

func (f *fakePreferenceRepo) SetChannel(userID, channel string, enabled bool) error {
	return nil
}

func (f *fakePreferenceRepo) EnabledUserIDs(notificationType string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.enabledUsers, nil
}

func (f *fakePreferenceRepo) FilterEnabled(userIDs []string, notificationType string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	enabled := make(map[string]bool, len(f.enabledUsers))
	for _, id := range f.enabledUsers {
		enabled[id] = true
	}
	var out []string
	for _, id := range userIDs {
		if enabled[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeOccupancy struct {
	occupants []rooms.Occupant
	err       error
}

func (f *fakeOccupancy) Occupants(ctx context.Context, roomID string) ([]rooms.Occupant, error) {
	return f.occupants, f.err
}

type fakePublisher struct {
	published []*queue.NotificationCreated
	err       error
}

func (f *fakePublisher) PublishNotificationCreated(event *queue.NotificationCreated) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

type fakeGuard struct {
	seen   map[string]bool
	marked []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{seen: make(map[string]bool)}
}

func (f *fakeGuard) Seen(ctx context.Context, key string) bool {
	return f.seen[key]
}

func (f *fakeGuard) Mark(ctx context.Context, key string) {
	f.seen[key] = true
	f.marked = append(f.marked, key)
}

type fanoutFixture struct {
	notifications *fakeNotificationRepo
	preferences   *fakePreferenceRepo
	occupancy     *fakeOccupancy
	publisher     *fakePublisher
	guard         *fakeGuard
	uc            FanoutUseCase
}

func newFanoutFixture() *fanoutFixture {
	f := &fanoutFixture{
		notifications: &fakeNotificationRepo{},
		preferences:   &fakePreferenceRepo{},
		occupancy:     &fakeOccupancy{},
		publisher:     &fakePublisher{},
		guard:         newFakeGuard(),
	}
	f.uc = NewFanoutUseCase(f.notifications, f.preferences, f.occupancy, f.publisher, f.guard, nil, logger.New())
	return f
}

func eventCreatedBody(t *testing.T, event *queue.EventCreated) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func inspectionBody(t *testing.T, event *queue.RoomInspectionStatusUpdated) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestHandleDomainEvent_MalformedBody(t *testing.T) {
	f := newFanoutFixture()

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, []byte("{not json"))

	assert.Equal(t, queue.Reject, result)
	assert.Empty(t, f.notifications.saved)
}

func TestHandleDomainEvent_UnknownRoutingKey(t *testing.T) {
	f := newFanoutFixture()

	result := f.uc.HandleDomainEvent(context.Background(), "event.deleted", []byte("{}"))

	assert.Equal(t, queue.Reject, result)
}

func TestEventCreated_OwnerAlwaysNotified(t *testing.T) {
	f := newFanoutFixture()
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		Name:    "Movie Night",
		Date:    time.Now().Add(24 * time.Hour),
		OwnerID: "owner",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	assert.Equal(t, queue.Done, result)
	require.Len(t, f.notifications.saved, 1)
	assert.Equal(t, "owner", f.notifications.saved[0].UserID)
	assert.Equal(t, "Event Scheduled Successfully", f.notifications.saved[0].Title)
	assert.Equal(t, entity.TypeEvents, f.notifications.saved[0].Type)
}

func TestEventCreated_FansOutToSubscribersExcludingOwner(t *testing.T) {
	f := newFanoutFixture()
	f.preferences.enabledUsers = []string{"owner", "u2", "u3", "u2"}
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		Name:    "Movie Night",
		Date:    time.Now().Add(24 * time.Hour),
		OwnerID: "owner",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	assert.Equal(t, queue.Done, result)
	require.Len(t, f.notifications.saved, 3)

	recipients := make(map[string]string)
	for _, n := range f.notifications.saved {
		recipients[n.UserID] = n.Title
	}
	assert.Equal(t, "Event Scheduled Successfully", recipients["owner"])
	assert.Equal(t, "New Event Available", recipients["u2"])
	assert.Equal(t, "New Event Available", recipients["u3"])
}

func TestEventCreated_PublishesPerRow(t *testing.T) {
	f := newFanoutFixture()
	f.preferences.enabledUsers = []string{"u2"}
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		Name:    "Movie Night",
		Date:    time.Now(),
		OwnerID: "owner",
	})

	f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	require.Len(t, f.publisher.published, 2)
	for _, event := range f.publisher.published {
		assert.NotEmpty(t, event.NotificationID)
		assert.NotEmpty(t, event.UserID)
	}
}

func TestEventCreated_MissingIDs(t *testing.T) {
	f := newFanoutFixture()
	body := eventCreatedBody(t, &queue.EventCreated{Name: "nameless"})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	assert.Equal(t, queue.Reject, result)
	assert.Empty(t, f.notifications.saved)
}

func TestEventCreated_DuplicateSkipped(t *testing.T) {
	f := newFanoutFixture()
	f.guard.seen["event.created:e1"] = true
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		OwnerID: "owner",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	assert.Equal(t, queue.Done, result)
	assert.Empty(t, f.notifications.saved)
	assert.Empty(t, f.publisher.published)
}

func TestEventCreated_SaveFailureRetriesWithoutMarking(t *testing.T) {
	f := newFanoutFixture()
	f.notifications.createErr = errors.New("db down")
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		OwnerID: "owner",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	assert.Equal(t, queue.Retry, result)
	assert.Empty(t, f.guard.marked)
}

func TestEventCreated_PublishFailureStillDone(t *testing.T) {
	f := newFanoutFixture()
	f.publisher.err = errors.New("broker down")
	body := eventCreatedBody(t, &queue.EventCreated{
		EventID: "e1",
		OwnerID: "owner",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyEventCreated, body)

	// The rows are durable, so a failed publish is not a reason to redeliver.
	assert.Equal(t, queue.Done, result)
	assert.Len(t, f.notifications.saved, 1)
	assert.Contains(t, f.guard.marked, "event.created:e1")
}

func strPtr(s string) *string { return &s }

func TestInspection_NotifiesOptedInOccupants(t *testing.T) {
	f := newFanoutFixture()
	f.occupancy.occupants = []rooms.Occupant{
		{UserID: strPtr("u1"), Bed: 1},
		{UserID: strPtr("u2"), Bed: 2},
		{UserID: strPtr("u3"), Bed: 3},
	}
	f.preferences.enabledUsers = []string{"u1", "u3"}
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		InspectionName:   "Weekly Check",
		NewStatus:        "confirmed",
		RoomNumber:       "304",
		Building:         "Building A",
		Floor:            3,
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Done, result)
	require.Len(t, f.notifications.saved, 2)
	assert.Equal(t, "u1", f.notifications.saved[0].UserID)
	assert.Equal(t, "u3", f.notifications.saved[1].UserID)
	assert.Equal(t, entity.TypeInspectionResults, f.notifications.saved[0].Type)
	assert.Equal(t, "Inspection Passed", f.notifications.saved[0].Title)
}

func TestInspection_OccupancyFailureAbsorbed(t *testing.T) {
	f := newFanoutFixture()
	f.occupancy.err = errors.New("room service unreachable")
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		NewStatus:        "confirmed",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Done, result)
	assert.Empty(t, f.notifications.saved)
}

func TestInspection_UnassignedBedsFiltered(t *testing.T) {
	f := newFanoutFixture()
	f.occupancy.occupants = []rooms.Occupant{
		{UserID: nil, Bed: 1},
		{UserID: strPtr(""), Bed: 2},
	}
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		NewStatus:        "confirmed",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Done, result)
	assert.Empty(t, f.notifications.saved)
}

func TestInspection_NobodyOptedIn(t *testing.T) {
	f := newFanoutFixture()
	f.occupancy.occupants = []rooms.Occupant{{UserID: strPtr("u1"), Bed: 1}}
	f.preferences.enabledUsers = nil
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		NewStatus:        "confirmed",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Done, result)
	assert.Empty(t, f.notifications.saved)
}

func TestInspection_PreferenceFailureRetries(t *testing.T) {
	f := newFanoutFixture()
	f.occupancy.occupants = []rooms.Occupant{{UserID: strPtr("u1"), Bed: 1}}
	f.preferences.listErr = errors.New("db down")
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		NewStatus:        "confirmed",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Retry, result)
}

func TestInspection_DuplicateSkipped(t *testing.T) {
	f := newFanoutFixture()
	f.guard.seen["inspection.status_updated:ri1:confirmed"] = true
	body := inspectionBody(t, &queue.RoomInspectionStatusUpdated{
		RoomInspectionID: "ri1",
		RoomID:           "r1",
		NewStatus:        "confirmed",
	})

	result := f.uc.HandleDomainEvent(context.Background(), queue.RoutingKeyInspectionStatus, body)

	assert.Equal(t, queue.Done, result)
	assert.Empty(t, f.notifications.saved)
}
