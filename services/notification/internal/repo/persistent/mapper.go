package persistent

import (
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/model"
)

func ToNotificationModel(n *entity.Notification) model.NotificationModel {
	return model.NotificationModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationEntities(rows []model.NotificationModel) []entity.Notification {
	notifications := make([]entity.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = entity.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			Title:     row.Title,
			Message:   row.Message,
			Type:      row.Type,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		}
	}
	return notifications
}

func ToTypeSettings(rows []model.PreferenceModel) []entity.TypeSetting {
	settings := make([]entity.TypeSetting, len(rows))
	for i, row := range rows {
		settings[i] = entity.TypeSetting{Type: row.Type, Enabled: row.Enabled}
	}
	return settings
}

func ToChannelSettings(rows []model.ChannelBindingModel) []entity.ChannelSetting {
	channels := make([]entity.ChannelSetting, len(rows))
	for i, row := range rows {
		channels[i] = entity.ChannelSetting{
			Channel:    row.Channel,
			Enabled:    row.Enabled,
			ExternalID: row.ExternalID,
		}
	}
	return channels
}
