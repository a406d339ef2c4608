package models

import "time"

// SettingModel is a keyed configuration value such as the WhatsApp template.
type SettingModel struct {
	ID          uint      `json:"-"           gorm:"primaryKey;autoIncrement"`
	Key         string    `json:"key"         gorm:"column:name;size:191;uniqueIndex;not null"`
	Value       string    `json:"value"       gorm:"type:longtext"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SettingModel) TableName() string { return "settings" }
