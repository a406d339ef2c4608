package program

import (
	"context"
	"errors"
	"strings"

	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/pagination"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("program not found")
	ErrInvalidInput = errors.New("invalid program")
)

type ImageDTO struct {
	URL     string `json:"url"     binding:"required"`
	Caption string `json:"caption"`
}

type CreateProgramDTO struct {
	Name        string     `json:"name"        binding:"required"`
	Description string     `json:"description" binding:"required"`
	Images      []ImageDTO `json:"images"      binding:"dive"`
}

type UpdateProgramDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) withImages(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

// List returns programs newest first, each with its images. A nil query
// returns all of them.
func (s *Service) List(ctx context.Context, q *pagination.Query) ([]models.ProgramModel, *response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.ProgramModel{}).Order("created_at DESC")
	items := []models.ProgramModel{}
	var pag *response.Pagination
	if q == nil {
		if err := tx.Find(&items).Error; err != nil {
			return nil, nil, err
		}
	} else {
		p, err := pagination.Paginate(tx, *q, &items)
		if err != nil {
			return nil, nil, err
		}
		pag = &p
	}
	return items, pag, s.attachImages(ctx, items)
}

func (s *Service) attachImages(ctx context.Context, items []models.ProgramModel) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
		items[i].Images = []models.ProgramImageModel{}
	}
	var images []models.ProgramImageModel
	if err := s.db.WithContext(ctx).Where("program_id IN ?", ids).Order("created_at ASC").Find(&images).Error; err != nil {
		return err
	}
	byProgram := make(map[string]int, len(items))
	for i := range items {
		byProgram[items[i].ID] = i
	}
	for _, img := range images {
		if i, ok := byProgram[img.ProgramID]; ok {
			items[i].Images = append(items[i].Images, img)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ProgramModel, error) {
	var p models.ProgramModel
	if err := s.withImages(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateProgramDTO) (*models.ProgramModel, error) {
	p := models.ProgramModel{
		Name:        strings.TrimSpace(dto.Name),
		Description: strings.TrimSpace(dto.Description),
	}
	if p.Name == "" || p.Description == "" {
		return nil, ErrInvalidInput
	}
	for _, img := range dto.Images {
		p.Images = append(p.Images, models.ProgramImageModel{URL: strings.TrimSpace(img.URL), Caption: img.Caption})
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateProgramDTO) (*models.ProgramModel, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		updates["name"] = name
		p.Name = name
	}
	if dto.Description != nil {
		desc := strings.TrimSpace(*dto.Description)
		if desc == "" {
			return nil, ErrInvalidInput
		}
		updates["description"] = desc
		p.Description = desc
	}
	if len(updates) == 0 {
		return p, nil
	}
	err = s.db.WithContext(ctx).Model(&models.ProgramModel{}).Where("id = ?", id).Updates(updates).Error
	return p, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&models.ProgramImageModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ProgramModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) Images(ctx context.Context, programID string) ([]models.ProgramImageModel, error) {
	if _, err := s.Get(ctx, programID); err != nil {
		return nil, err
	}
	images := []models.ProgramImageModel{}
	err := s.db.WithContext(ctx).Where("program_id = ?", programID).Order("created_at ASC").Find(&images).Error
	return images, err
}

func (s *Service) AddImage(ctx context.Context, programID string, dto *ImageDTO) (*models.ProgramImageModel, error) {
	if _, err := s.Get(ctx, programID); err != nil {
		return nil, err
	}
	img := models.ProgramImageModel{ProgramID: programID, URL: strings.TrimSpace(dto.URL), Caption: dto.Caption}
	if img.URL == "" {
		return nil, ErrInvalidInput
	}
	if err := s.db.WithContext(ctx).Create(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Service) RemoveImage(ctx context.Context, programID, imageID string) error {
	res := s.db.WithContext(ctx).Delete(&models.ProgramImageModel{}, "id = ? AND program_id = ?", imageID, programID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
