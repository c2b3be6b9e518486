package model

import "time"

type ChatLinkModel struct {
	ID       string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID   string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ChatID   string    `gorm:"column:chat_id;type:varchar(64);not null;uniqueIndex"`
	LinkedAt time.Time `gorm:"column:linked_at;not null"`
}

func (ChatLinkModel) TableName() string {
	return "chat_links"
}
