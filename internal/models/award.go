package models

type AwardModel struct {
	Base
	Title    string `json:"title"     gorm:"not null"`
	ImageURL string `json:"image_url" gorm:"not null"`
	Year     string `json:"year"`
	Order    int    `json:"order"     gorm:"column:sort_order"`
}

func (AwardModel) TableName() string { return "awards" }

// ScheduleModel is one row of the daily activity timetable.
type ScheduleModel struct {
	Base
	Time     string `json:"time"     gorm:"not null"`
	Activity string `json:"activity" gorm:"not null"`
	Order    int    `json:"order"    gorm:"column:sort_order"`
}

func (ScheduleModel) TableName() string { return "schedules" }

type SocialMediaModel struct {
	Base
	Platform string `json:"platform" gorm:"not null;index"`
	Username string `json:"username" gorm:"not null"`
	URL      string `json:"url"      gorm:"not null"`
}

func (SocialMediaModel) TableName() string { return "social_media" }
