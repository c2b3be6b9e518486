package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/repo/persistent"
	"dorm-link/services/notification/internal/service/rooms"

	"github.com/redis/go-redis/v9"
)

// NotificationPublisher emits one integration event per persisted ledger row.
type NotificationPublisher interface {
	PublishNotificationCreated(event *queue.NotificationCreated) error
}

// OccupancyClient resolves who currently lives in a room.
type OccupancyClient interface {
	Occupants(ctx context.Context, roomID string) ([]rooms.Occupant, error)
}

// FanoutUseCase turns one domain event into zero or more per-recipient
// notifications: compute recipients, persist the batch, then publish one
// integration event per row.
type FanoutUseCase interface {
	HandleDomainEvent(ctx context.Context, routingKey string, body []byte) queue.Result
}

type fanoutUseCase struct {
	notificationRepo persistent.NotificationRepository
	preferenceRepo   persistent.PreferenceRepository
	occupancy        OccupancyClient
	publisher        NotificationPublisher
	guard            IdempotencyGuard
	redisClient      *redis.Client
	logger           *logger.Logger
}

func NewFanoutUseCase(
	notificationRepo persistent.NotificationRepository,
	preferenceRepo persistent.PreferenceRepository,
	occupancy OccupancyClient,
	publisher NotificationPublisher,
	guard IdempotencyGuard,
	redisClient *redis.Client,
	log *logger.Logger,
) FanoutUseCase {
	return &fanoutUseCase{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		occupancy:        occupancy,
		publisher:        publisher,
		guard:            guard,
		redisClient:      redisClient,
		logger:           log,
	}
}

func (uc *fanoutUseCase) HandleDomainEvent(ctx context.Context, routingKey string, body []byte) queue.Result {
	switch routingKey {
	case queue.RoutingKeyEventCreated:
		var event queue.EventCreated
		if err := json.Unmarshal(body, &event); err != nil {
			uc.logger.Error("[FANOUT] Failed to unmarshal event.created: %v, body=%s", err, string(body))
			return queue.Reject
		}
		return uc.handleEventCreated(ctx, &event)
	case queue.RoutingKeyInspectionStatus:
		var event queue.RoomInspectionStatusUpdated
		if err := json.Unmarshal(body, &event); err != nil {
			uc.logger.Error("[FANOUT] Failed to unmarshal inspection.status_updated: %v, body=%s", err, string(body))
			return queue.Reject
		}
		return uc.handleInspectionStatusUpdated(ctx, &event)
	default:
		uc.logger.Error("[FANOUT] Unknown routing key: %s", routingKey)
		return queue.Reject
	}
}

func (uc *fanoutUseCase) handleEventCreated(ctx context.Context, event *queue.EventCreated) queue.Result {
	if event.EventID == "" || event.OwnerID == "" {
		uc.logger.Error("[FANOUT] Invalid event.created: missing event_id or owner_id")
		return queue.Reject
	}

	dedupKey := fmt.Sprintf("%s:%s", queue.RoutingKeyEventCreated, event.EventID)
	if uc.guard.Seen(ctx, dedupKey) {
		uc.logger.Info("[FANOUT] Skipping duplicate delivery of event %s", event.EventID)
		return queue.Done
	}

	now := time.Now().UTC()
	var notifications []*entity.Notification

	// The owner always hears about their own event, preference or not.
	ownerTitle, ownerMessage := eventOwnerMessage(event)
	notifications = append(notifications, &entity.Notification{
		UserID:    event.OwnerID,
		Title:     ownerTitle,
		Message:   ownerMessage,
		Type:      entity.TypeEvents,
		CreatedAt: now,
	})

	recipients, err := uc.preferenceRepo.EnabledUserIDs(entity.TypeEvents)
	if err != nil {
		uc.logger.Error("[FANOUT] Failed to load event subscribers: %v", err)
		return queue.Retry
	}

	audienceTitle, audienceMessage := eventAudienceMessage(event)
	seen := map[string]bool{event.OwnerID: true}
	for _, userID := range recipients {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		notifications = append(notifications, &entity.Notification{
			UserID:    userID,
			Title:     audienceTitle,
			Message:   audienceMessage,
			Type:      entity.TypeEvents,
			CreatedAt: now,
		})
	}

	if err := uc.notificationRepo.CreateBatch(notifications); err != nil {
		// Left unguarded on purpose: the transport's redelivery is the retry
		// policy, at the cost of possible duplicates.
		uc.logger.Error("[FANOUT] Failed to save notifications for event %s: %v", event.EventID, err)
		return queue.Retry
	}

	uc.publishAll(ctx, notifications)
	uc.guard.Mark(ctx, dedupKey)

	uc.logger.Info("[FANOUT] Event %s fanned out to %d recipients", event.EventID, len(notifications))
	return queue.Done
}

func (uc *fanoutUseCase) handleInspectionStatusUpdated(ctx context.Context, event *queue.RoomInspectionStatusUpdated) queue.Result {
	if event.RoomInspectionID == "" || event.RoomID == "" {
		uc.logger.Error("[FANOUT] Invalid inspection.status_updated: missing room_inspection_id or room_id")
		return queue.Reject
	}

	dedupKey := fmt.Sprintf("%s:%s:%s", queue.RoutingKeyInspectionStatus, event.RoomInspectionID, event.NewStatus)
	if uc.guard.Seen(ctx, dedupKey) {
		uc.logger.Info("[FANOUT] Skipping duplicate delivery of inspection update %s", event.RoomInspectionID)
		return queue.Done
	}

	occupants, err := uc.occupancy.Occupants(ctx, event.RoomID)
	if err != nil {
		// Absorbed: the occupancy lookup failing means nobody gets notified,
		// not that the message cycles through the queue forever.
		uc.logger.Error("[FANOUT] Occupancy lookup failed for room %s: %v, dropping inspection update", event.RoomID, err)
		return queue.Done
	}

	var occupantIDs []string
	for _, occupant := range occupants {
		if occupant.UserID != nil && *occupant.UserID != "" {
			occupantIDs = append(occupantIDs, *occupant.UserID)
		}
	}
	if len(occupantIDs) == 0 {
		uc.logger.Info("[FANOUT] Room %s has no assigned occupants, nothing to notify", event.RoomID)
		return queue.Done
	}

	recipients, err := uc.preferenceRepo.FilterEnabled(occupantIDs, entity.TypeInspectionResults)
	if err != nil {
		uc.logger.Error("[FANOUT] Failed to filter inspection subscribers: %v", err)
		return queue.Retry
	}
	if len(recipients) == 0 {
		uc.logger.Info("[FANOUT] No occupants of room %s opted in to inspection results", event.RoomID)
		return queue.Done
	}

	title, message := inspectionMessage(event)
	now := time.Now().UTC()
	notifications := make([]*entity.Notification, len(recipients))
	for i, userID := range recipients {
		notifications[i] = &entity.Notification{
			UserID:    userID,
			Title:     title,
			Message:   message,
			Type:      entity.TypeInspectionResults,
			CreatedAt: now,
		}
	}

	if err := uc.notificationRepo.CreateBatch(notifications); err != nil {
		uc.logger.Error("[FANOUT] Failed to save notifications for inspection %s: %v", event.RoomInspectionID, err)
		return queue.Retry
	}

	uc.publishAll(ctx, notifications)
	uc.guard.Mark(ctx, dedupKey)

	uc.logger.Info("[FANOUT] Inspection %s (%s) fanned out to %d occupants of room %s",
		event.RoomInspectionID, event.NewStatus, len(notifications), event.RoomID)
	return queue.Done
}

// publishAll emits one integration event per saved row. The ledger write and
// the publishes share no transaction: a crash in between leaves rows with no
// delivery trigger. Publish failures are logged and skipped for the same
// reason, since the rows are already durable.
func (uc *fanoutUseCase) publishAll(ctx context.Context, notifications []*entity.Notification) {
	for _, n := range notifications {
		integrationEvent := &queue.NotificationCreated{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Title:          n.Title,
			Message:        n.Message,
			CreatedAt:      n.CreatedAt,
		}
		if err := uc.publisher.PublishNotificationCreated(integrationEvent); err != nil {
			uc.logger.Error("[FANOUT] Failed to publish notification %s for user %s: %v", n.ID, n.UserID, err)
			continue
		}
		uc.pushLive(ctx, n)
	}
}

// pushLive feeds the WebSocket path over Redis pub/sub. Best effort.
func (uc *fanoutUseCase) pushLive(ctx context.Context, n *entity.Notification) {
	if uc.redisClient == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("notifications:%s", n.UserID)
	if err := uc.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		uc.logger.Warn("[FANOUT] Failed to publish to pub/sub channel %s: %v", channel, err)
	}
}
