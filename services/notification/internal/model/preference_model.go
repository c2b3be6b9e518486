package model

type PreferenceModel struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey"`
	UserID  string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_preferences_user_type"`
	Type    string `gorm:"column:type;type:varchar(50);not null;uniqueIndex:idx_preferences_user_type"`
	Enabled bool   `gorm:"column:enabled;not null"`
}

func (PreferenceModel) TableName() string {
	return "notification_preferences"
}

type ChannelBindingModel struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     string  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_bindings_user_channel"`
	Channel    string  `gorm:"column:channel;type:varchar(50);not null;uniqueIndex:idx_bindings_user_channel"`
	Enabled    bool    `gorm:"column:enabled;not null"`
	ExternalID *string `gorm:"column:external_id;type:varchar(255)"`
}

func (ChannelBindingModel) TableName() string {
	return "channel_bindings"
}
