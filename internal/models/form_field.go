package models

import "time"

// FormFieldModel is the stored form of a registration field definition.
// ID is auto-incremented so it doubles as the insertion sequence.
type FormFieldModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:64;uniqueIndex;not null"`
	Label       string    `gorm:"not null"`
	Placeholder string
	Kind        string    `gorm:"size:16;not null"`
	Required    bool      `gorm:"not null"`
	Enabled     bool      `gorm:"not null;index"`
	Order       int       `gorm:"column:sort_order;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FormFieldModel) TableName() string { return "form_fields" }
