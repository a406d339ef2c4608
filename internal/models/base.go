package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every content entity. ID is a UUID string.
type Base struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// All returns every model the schema is migrated for, parents before children.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&AdminSession{},
		&FormFieldModel{},
		&SettingModel{},
		&ProgramModel{},
		&ProgramImageModel{},
		&ArticleModel{},
		&EmployeeModel{},
		&AwardModel{},
		&ScheduleModel{},
		&SocialMediaModel{},
	}
}
