package persistent

import (
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	ListTypeSettings(userID string) ([]entity.TypeSetting, error)
	ListChannelSettings(userID string) ([]entity.ChannelSetting, error)
	SetType(userID, notificationType string, enabled bool) error
	SetChannel(userID, channel string, enabled bool) error
	EnabledUserIDs(notificationType string) ([]string, error)
	FilterEnabled(userIDs []string, notificationType string) ([]string, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) ListTypeSettings(userID string) ([]entity.TypeSetting, error) {
	var rows []model.PreferenceModel
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ToTypeSettings(rows), nil
}

func (r *preferenceRepository) ListChannelSettings(userID string) ([]entity.ChannelSetting, error) {
	var rows []model.ChannelBindingModel
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ToChannelSettings(rows), nil
}

// SetType upserts a (user, type) row. Rows are created lazily: a user who
// never touched a type has no row, which reads as disabled.
func (r *preferenceRepository) SetType(userID, notificationType string, enabled bool) error {
	row := model.PreferenceModel{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    notificationType,
		Enabled: enabled,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled"}),
	}).Create(&row).Error
}

func (r *preferenceRepository) SetChannel(userID, channel string, enabled bool) error {
	row := model.ChannelBindingModel{
		ID:      uuid.New().String(),
		UserID:  userID,
		Channel: channel,
		Enabled: enabled,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled"}),
	}).Create(&row).Error
}

// EnabledUserIDs returns the distinct users that opted in to a type.
func (r *preferenceRepository) EnabledUserIDs(notificationType string) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&model.PreferenceModel{}).
		Where("type = ? AND enabled = true", notificationType).
		Distinct().
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

// FilterEnabled keeps only the given users that opted in to a type.
func (r *preferenceRepository) FilterEnabled(userIDs []string, notificationType string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var enabled []string
	err := r.db.Model(&model.PreferenceModel{}).
		Where("user_id IN ? AND type = ? AND enabled = true", userIDs, notificationType).
		Distinct().
		Pluck("user_id", &enabled).Error
	if err != nil {
		return nil, err
	}
	return enabled, nil
}
