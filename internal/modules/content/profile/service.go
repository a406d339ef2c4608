// Package profile serves the small school-profile collections: awards,
// the daily schedule and social media links.
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/zivana-montessori/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

type AwardDTO struct {
	Title    string `json:"title"     binding:"required"`
	ImageURL string `json:"image_url" binding:"required"`
	Year     string `json:"year"`
	Order    int    `json:"order"`
}

type ScheduleDTO struct {
	Time     string `json:"time"     binding:"required"`
	Activity string `json:"activity" binding:"required"`
	Order    int    `json:"order"`
}

type SocialMediaDTO struct {
	Platform string `json:"platform" binding:"required"`
	Username string `json:"username" binding:"required"`
	URL      string `json:"url"      binding:"required,url"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func list[T any](ctx context.Context, db *gorm.DB, order ...string) ([]T, error) {
	tx := db.WithContext(ctx)
	for _, o := range order {
		tx = tx.Order(o)
	}
	items := []T{}
	return items, tx.Find(&items).Error
}

func get[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var item T
	if err := db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func remove[T any](ctx context.Context, db *gorm.DB, id string) error {
	var zero T
	res := db.WithContext(ctx).Delete(&zero, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func save[T any](ctx context.Context, db *gorm.DB, item *T) (*T, error) {
	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (s *Service) Awards(ctx context.Context) ([]models.AwardModel, error) {
	return list[models.AwardModel](ctx, s.db, "sort_order ASC", "created_at ASC")
}

func (s *Service) Award(ctx context.Context, id string) (*models.AwardModel, error) {
	return get[models.AwardModel](ctx, s.db, id)
}

// SaveAward creates the award when id is empty and replaces it otherwise.
func (s *Service) SaveAward(ctx context.Context, id string, dto *AwardDTO) (*models.AwardModel, error) {
	if blank(dto.Title, dto.ImageURL) {
		return nil, ErrInvalidInput
	}
	item := &models.AwardModel{}
	if id != "" {
		var err error
		if item, err = s.Award(ctx, id); err != nil {
			return nil, err
		}
	}
	item.Title = strings.TrimSpace(dto.Title)
	item.ImageURL = strings.TrimSpace(dto.ImageURL)
	item.Year = strings.TrimSpace(dto.Year)
	item.Order = dto.Order
	return save(ctx, s.db, item)
}

func (s *Service) DeleteAward(ctx context.Context, id string) error {
	return remove[models.AwardModel](ctx, s.db, id)
}

func (s *Service) Schedules(ctx context.Context) ([]models.ScheduleModel, error) {
	return list[models.ScheduleModel](ctx, s.db, "sort_order ASC", "created_at ASC")
}

func (s *Service) Schedule(ctx context.Context, id string) (*models.ScheduleModel, error) {
	return get[models.ScheduleModel](ctx, s.db, id)
}

func (s *Service) SaveSchedule(ctx context.Context, id string, dto *ScheduleDTO) (*models.ScheduleModel, error) {
	if blank(dto.Time, dto.Activity) {
		return nil, ErrInvalidInput
	}
	item := &models.ScheduleModel{}
	if id != "" {
		var err error
		if item, err = s.Schedule(ctx, id); err != nil {
			return nil, err
		}
	}
	item.Time = strings.TrimSpace(dto.Time)
	item.Activity = strings.TrimSpace(dto.Activity)
	item.Order = dto.Order
	return save(ctx, s.db, item)
}

func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	return remove[models.ScheduleModel](ctx, s.db, id)
}

func (s *Service) SocialMedia(ctx context.Context) ([]models.SocialMediaModel, error) {
	return list[models.SocialMediaModel](ctx, s.db, "platform ASC")
}

func (s *Service) SocialMediaLink(ctx context.Context, id string) (*models.SocialMediaModel, error) {
	return get[models.SocialMediaModel](ctx, s.db, id)
}

func (s *Service) SaveSocialMedia(ctx context.Context, id string, dto *SocialMediaDTO) (*models.SocialMediaModel, error) {
	if blank(dto.Platform, dto.Username, dto.URL) {
		return nil, ErrInvalidInput
	}
	item := &models.SocialMediaModel{}
	if id != "" {
		var err error
		if item, err = s.SocialMediaLink(ctx, id); err != nil {
			return nil, err
		}
	}
	item.Platform = strings.TrimSpace(dto.Platform)
	item.Username = strings.TrimSpace(dto.Username)
	item.URL = strings.TrimSpace(dto.URL)
	return save(ctx, s.db, item)
}

func (s *Service) DeleteSocialMedia(ctx context.Context, id string) error {
	return remove[models.SocialMediaModel](ctx, s.db, id)
}
