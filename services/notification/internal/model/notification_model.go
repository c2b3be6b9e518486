package model

import "time"

type NotificationModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;type:varchar(255);not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Type      string    `gorm:"column:type;type:varchar(50);not null"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
