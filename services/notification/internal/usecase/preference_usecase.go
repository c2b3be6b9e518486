package usecase

import (
	"fmt"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/repo/persistent"
)

// KnownTypes is the closed set of notification types the settings endpoint
// reports. Types without a stored row read as disabled.
var KnownTypes = []string{entity.TypeEvents, entity.TypeInspectionResults}

// KnownChannels mirrors KnownTypes for delivery channels.
var KnownChannels = []string{entity.ChannelTelegram}

type PreferenceUseCase interface {
	GetSettings(userID string) (*entity.NotificationSettings, error)
	UpdateSettings(userID string, types []entity.TypeSetting, channels []entity.ChannelSetting) error
}

type preferenceUseCase struct {
	preferenceRepo persistent.PreferenceRepository
	logger         *logger.Logger
}

func NewPreferenceUseCase(preferenceRepo persistent.PreferenceRepository, log *logger.Logger) PreferenceUseCase {
	return &preferenceUseCase{preferenceRepo: preferenceRepo, logger: log}
}

// GetSettings returns the full snapshot, filling in disabled entries for
// types and channels the user never touched.
func (uc *preferenceUseCase) GetSettings(userID string) (*entity.NotificationSettings, error) {
	typeRows, err := uc.preferenceRepo.ListTypeSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load type settings: %w", err)
	}
	channelRows, err := uc.preferenceRepo.ListChannelSettings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel settings: %w", err)
	}

	storedTypes := make(map[string]bool, len(typeRows))
	for _, row := range typeRows {
		storedTypes[row.Type] = row.Enabled
	}
	storedChannels := make(map[string]entity.ChannelSetting, len(channelRows))
	for _, row := range channelRows {
		storedChannels[row.Channel] = row
	}

	settings := &entity.NotificationSettings{UserID: userID}
	for _, t := range KnownTypes {
		settings.Settings = append(settings.Settings, entity.TypeSetting{Type: t, Enabled: storedTypes[t]})
	}
	for _, ch := range KnownChannels {
		if stored, ok := storedChannels[ch]; ok {
			settings.Channels = append(settings.Channels, stored)
		} else {
			settings.Channels = append(settings.Channels, entity.ChannelSetting{Channel: ch, Enabled: false})
		}
	}

	return settings, nil
}

// UpdateSettings applies each item independently: one failing upsert is
// logged and skipped so the rest of the batch still lands.
func (uc *preferenceUseCase) UpdateSettings(userID string, types []entity.TypeSetting, channels []entity.ChannelSetting) error {
	var failed int

	for _, t := range types {
		if t.Type == "" {
			failed++
			continue
		}
		if err := uc.preferenceRepo.SetType(userID, t.Type, t.Enabled); err != nil {
			uc.logger.Error("Failed to upsert type setting (%s, %s): %v", userID, t.Type, err)
			failed++
		}
	}

	for _, ch := range channels {
		if ch.Channel == "" {
			failed++
			continue
		}
		if err := uc.preferenceRepo.SetChannel(userID, ch.Channel, ch.Enabled); err != nil {
			uc.logger.Error("Failed to upsert channel setting (%s, %s): %v", userID, ch.Channel, err)
			failed++
		}
	}

	if failed == len(types)+len(channels) && failed > 0 {
		return fmt.Errorf("no settings were applied")
	}
	return nil
}
