package models

// ProgramModel is a class programme shown on the public site.
type ProgramModel struct {
	Base
	Name        string              `json:"name"        gorm:"not null"`
	Description string              `json:"description" gorm:"type:text"`
	Images      []ProgramImageModel `json:"images"      gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}

func (ProgramModel) TableName() string { return "programs" }

type ProgramImageModel struct {
	Base
	ProgramID string `json:"program_id" gorm:"type:char(36);index;not null"`
	URL       string `json:"url"        gorm:"not null"`
	Caption   string `json:"caption"`
}

func (ProgramImageModel) TableName() string { return "program_images" }
