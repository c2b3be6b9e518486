package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleResident  UserRole = "resident"
	RoleInspector UserRole = "inspector"
	RoleAdmin     UserRole = "admin"
)

// User is owned by the auth service; this mirror carries only the columns
// the notification pipeline and the seeder touch. RoomID stands in for the
// room service's bed-assignment table in local setups.
type User struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	Role      UserRole       `gorm:"type:varchar(20);default:'resident'" json:"role"`
	RoomID    *string        `gorm:"type:uuid" json:"room_id,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
