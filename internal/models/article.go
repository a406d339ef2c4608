package models

import "time"

// ArticleModel is a news post. Content is markdown.
type ArticleModel struct {
	Base
	Title       string     `json:"title"        gorm:"not null"`
	Content     string     `json:"content"      gorm:"type:longtext"`
	Author      string     `json:"author"       gorm:"not null"`
	ImageURL    string     `json:"image_url"`
	Published   bool       `json:"published"    gorm:"index"`
	PublishedAt *time.Time `json:"published_at"`
}

func (ArticleModel) TableName() string { return "articles" }
