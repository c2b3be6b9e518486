package usecase

import (
	"fmt"

	"dorm-link/pkg/logger"
	"dorm-link/services/bot/internal/entity"
	"dorm-link/services/bot/internal/repo/persistent"
)

type LinkUseCase interface {
	Bind(userID, chatID string) error
	Unbind(chatID string) (bool, error)
	Status(chatID string) (*entity.LinkStatus, error)
}

type linkUseCase struct {
	chatLinkRepo persistent.ChatLinkRepository
	logger       *logger.Logger
}

func NewLinkUseCase(chatLinkRepo persistent.ChatLinkRepository, log *logger.Logger) LinkUseCase {
	return &linkUseCase{chatLinkRepo: chatLinkRepo, logger: log}
}

func (uc *linkUseCase) Bind(userID, chatID string) error {
	if err := uc.chatLinkRepo.Bind(userID, chatID); err != nil {
		return fmt.Errorf("failed to bind chat link: %w", err)
	}
	uc.logger.Info("Linked user %s to chat %s", userID, chatID)
	return nil
}

func (uc *linkUseCase) Unbind(chatID string) (bool, error) {
	removed, err := uc.chatLinkRepo.Unbind(chatID)
	if err != nil {
		return false, fmt.Errorf("failed to unbind chat link: %w", err)
	}
	if removed {
		uc.logger.Info("Unlinked chat %s", chatID)
	}
	return removed, nil
}

func (uc *linkUseCase) Status(chatID string) (*entity.LinkStatus, error) {
	link, err := uc.chatLinkRepo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat link: %w", err)
	}
	if link == nil {
		return &entity.LinkStatus{Linked: false}, nil
	}
	linkedAt := link.LinkedAt
	return &entity.LinkStatus{Linked: true, LinkedAt: &linkedAt}, nil
}
