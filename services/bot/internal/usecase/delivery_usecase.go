package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	"dorm-link/services/bot/internal/repo/persistent"
)

// ChatSender is the opaque send capability of the external chat platform.
type ChatSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// DeliveryUseCase consumes NotificationCreated events and performs best-effort
// delivery to the user's bound chat.
type DeliveryUseCase interface {
	HandleDelivery(ctx context.Context, routingKey string, body []byte) queue.Result
}

type deliveryUseCase struct {
	chatLinkRepo persistent.ChatLinkRepository
	sender       ChatSender
	logger       *logger.Logger
}

func NewDeliveryUseCase(chatLinkRepo persistent.ChatLinkRepository, sender ChatSender, log *logger.Logger) DeliveryUseCase {
	return &deliveryUseCase{chatLinkRepo: chatLinkRepo, sender: sender, logger: log}
}

// HandleDelivery never asks for a requeue: a structurally undeliverable
// message (user blocked the bot, no link yet) would otherwise cycle through
// the broker forever. The ledger row already exists either way, so the user
// still sees the notification through the HTTP API.
func (uc *deliveryUseCase) HandleDelivery(ctx context.Context, routingKey string, body []byte) queue.Result {
	var event queue.NotificationCreated
	if err := json.Unmarshal(body, &event); err != nil {
		uc.logger.Error("[DELIVERY] Failed to unmarshal notification.created: %v, body=%s", err, string(body))
		return queue.Reject
	}

	link, err := uc.chatLinkRepo.GetByUserID(event.UserID)
	if err != nil {
		uc.logger.Error("[DELIVERY] Failed to look up chat link for user %s: %v", event.UserID, err)
		return queue.Done
	}
	if link == nil {
		uc.logger.Info("[DELIVERY] User %s has no linked chat, dropping notification %s", event.UserID, event.NotificationID)
		return queue.Done
	}

	text := fmt.Sprintf("%s\n\n%s", event.Title, event.Message)
	if err := uc.sender.SendMessage(ctx, link.ChatID, text); err != nil {
		uc.logger.Error("[DELIVERY] Failed to send notification %s to chat %s: %v", event.NotificationID, link.ChatID, err)
		return queue.Done
	}

	uc.logger.Info("[DELIVERY] Delivered notification %s to chat %s", event.NotificationID, link.ChatID)
	return queue.Done
}
