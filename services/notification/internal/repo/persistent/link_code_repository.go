package persistent

import (
	"time"

	"dorm-link/services/notification/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LinkCodeRepository interface {
	Create(userID, code string, expiresAt time.Time) error
	Consume(code string, now time.Time) (string, bool, error)
}

type linkCodeRepository struct {
	db *gorm.DB
}

func NewLinkCodeRepository(db *gorm.DB) LinkCodeRepository {
	return &linkCodeRepository{db: db}
}

func (r *linkCodeRepository) Create(userID, code string, expiresAt time.Time) error {
	row := model.LinkCodeModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		Used:      false,
	}
	return r.db.Create(&row).Error
}

// Consume marks a live code used and returns its owner. The conditional
// UPDATE is the linearization point: two concurrent calls with the same code
// can never both see a row, even across service instances.
func (r *linkCodeRepository) Consume(code string, now time.Time) (string, bool, error) {
	var userID string
	result := r.db.Raw(
		`UPDATE link_codes SET used = true
		 WHERE code = ? AND used = false AND expires_at > ?
		 RETURNING user_id`,
		code, now,
	).Scan(&userID)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return userID, true, nil
}
