package persistent

import (
	"errors"
	"time"

	"dorm-link/services/bot/internal/entity"
	"dorm-link/services/bot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatLinkRepository interface {
	GetByUserID(userID string) (*entity.ChatLink, error)
	GetByChatID(chatID string) (*entity.ChatLink, error)
	Bind(userID, chatID string) error
	Unbind(chatID string) (bool, error)
}

type chatLinkRepository struct {
	db *gorm.DB
}

func NewChatLinkRepository(db *gorm.DB) ChatLinkRepository {
	return &chatLinkRepository{db: db}
}

func (r *chatLinkRepository) GetByUserID(userID string) (*entity.ChatLink, error) {
	var row model.ChatLinkModel
	err := r.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToChatLinkEntity(&row), nil
}

func (r *chatLinkRepository) GetByChatID(chatID string) (*entity.ChatLink, error) {
	var row model.ChatLinkModel
	err := r.db.Where("chat_id = ?", chatID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToChatLinkEntity(&row), nil
}

// Bind replaces any link involving this user or this chat with the new pair.
// Deleting by user_id OR chat_id before inserting (removing at most two rows)
// keeps the mapping bijective after every bind, and doing both inside one
// transaction keeps it so under concurrent binds across instances.
func (r *chatLinkRepository) Bind(userID, chatID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.ChatLinkModel
		err := tx.Where("user_id = ? AND chat_id = ?", userID, chatID).First(&existing).Error
		if err == nil {
			// Already linked to each other, nothing to do
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("user_id = ? OR chat_id = ?", userID, chatID).Delete(&model.ChatLinkModel{}).Error; err != nil {
			return err
		}

		row := model.ChatLinkModel{
			ID:       uuid.New().String(),
			UserID:   userID,
			ChatID:   chatID,
			LinkedAt: time.Now().UTC(),
		}
		return tx.Create(&row).Error
	})
}

func (r *chatLinkRepository) Unbind(chatID string) (bool, error) {
	result := r.db.Where("chat_id = ?", chatID).Delete(&model.ChatLinkModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
