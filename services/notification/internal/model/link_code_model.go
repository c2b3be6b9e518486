package model

import "time"

type LinkCodeModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null"`
	Code      string    `gorm:"column:code;type:char(6);not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Used      bool      `gorm:"column:used;not null;default:false"`
}

func (LinkCodeModel) TableName() string {
	return "link_codes"
}
