package persistent

import (
	"dorm-link/services/bot/internal/entity"
	"dorm-link/services/bot/internal/model"
)

func ToChatLinkEntity(row *model.ChatLinkModel) *entity.ChatLink {
	if row == nil {
		return nil
	}
	return &entity.ChatLink{
		ID:       row.ID,
		UserID:   row.UserID,
		ChatID:   row.ChatID,
		LinkedAt: row.LinkedAt,
	}
}
