package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/pagination"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"gorm.io/gorm"
)

// RelatedLimit caps GET /articles/:id/related.
const RelatedLimit = 2

var (
	ErrNotFound     = errors.New("article not found")
	ErrInvalidInput = errors.New("invalid article")
)

type CreateArticleDTO struct {
	Title     string `json:"title"     binding:"required"`
	Content   string `json:"content"   binding:"required"`
	Author    string `json:"author"    binding:"required"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"published"`
}

type UpdateArticleDTO struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Author    *string `json:"author"`
	ImageURL  *string `json:"image_url"`
	Published *bool   `json:"published"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

func (s *Service) scope(ctx context.Context, includeDrafts bool) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.ArticleModel{})
	if !includeDrafts {
		tx = tx.Where("published = ?", true)
	}
	return tx
}

// List returns articles newest first. Drafts are only included for admins.
func (s *Service) List(ctx context.Context, includeDrafts bool, q *pagination.Query) ([]models.ArticleModel, *response.Pagination, error) {
	tx := s.scope(ctx, includeDrafts).Order("created_at DESC")
	items := []models.ArticleModel{}
	if q == nil {
		return items, nil, tx.Find(&items).Error
	}
	pag, err := pagination.Paginate(tx, *q, &items)
	if err != nil {
		return nil, nil, err
	}
	return items, &pag, nil
}

// Get hides drafts from callers that may not see them.
func (s *Service) Get(ctx context.Context, id string, includeDrafts bool) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.scope(ctx, includeDrafts).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Related returns up to RelatedLimit other published articles, most recently
// published first.
func (s *Service) Related(ctx context.Context, id string) ([]models.ArticleModel, error) {
	items := []models.ArticleModel{}
	err := s.scope(ctx, false).
		Where("id <> ?", id).
		Order("published_at DESC").Order("created_at DESC").
		Limit(RelatedLimit).
		Find(&items).Error
	return items, err
}

func (s *Service) Create(ctx context.Context, dto *CreateArticleDTO) (*models.ArticleModel, error) {
	a := models.ArticleModel{
		Title:    strings.TrimSpace(dto.Title),
		Content:  dto.Content,
		Author:   strings.TrimSpace(dto.Author),
		ImageURL: strings.TrimSpace(dto.ImageURL),
	}
	if a.Title == "" || a.Author == "" || strings.TrimSpace(a.Content) == "" {
		return nil, ErrInvalidInput
	}
	s.setPublished(&a, dto.Published)
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateArticleDTO) (*models.ArticleModel, error) {
	a, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if dto.Title != nil {
		a.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Content != nil {
		a.Content = *dto.Content
	}
	if dto.Author != nil {
		a.Author = strings.TrimSpace(*dto.Author)
	}
	if dto.ImageURL != nil {
		a.ImageURL = strings.TrimSpace(*dto.ImageURL)
	}
	if a.Title == "" || a.Author == "" || strings.TrimSpace(a.Content) == "" {
		return nil, ErrInvalidInput
	}
	if dto.Published != nil {
		s.setPublished(a, *dto.Published)
	}
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// setPublished stamps PublishedAt the first time an article goes live and
// keeps it across later unpublish/publish cycles.
func (s *Service) setPublished(a *models.ArticleModel, published bool) {
	a.Published = published
	if published && a.PublishedAt == nil {
		now := s.now()
		a.PublishedAt = &now
	}
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ArticleModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns how many articles are published and how many are drafts.
func (s *Service) Counts(ctx context.Context) (published, drafts int64, err error) {
	if err = s.scope(ctx, false).Count(&published).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&models.ArticleModel{}).Where("published = ?", false).Count(&drafts).Error; err != nil {
		return 0, 0, err
	}
	return published, drafts, nil
}
