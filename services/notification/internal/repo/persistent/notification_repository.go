package persistent

import (
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(notifications []*entity.Notification) error
	ListByUser(userID string, limit, offset int) ([]entity.Notification, int64, error)
	MarkRead(userID, notificationID string) (bool, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch persists the fan-out of one domain event in a single insert.
// IDs are assigned here so callers can publish integration events afterwards.
func (r *notificationRepository) CreateBatch(notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	rows := make([]model.NotificationModel, len(notifications))
	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		rows[i] = ToNotificationModel(n)
	}

	return r.db.Create(&rows).Error
}

func (r *notificationRepository) ListByUser(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&model.NotificationModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.NotificationModel
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return ToNotificationEntities(rows), total, nil
}

func (r *notificationRepository) MarkRead(userID, notificationID string) (bool, error) {
	result := r.db.Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
