package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("employee not found")
	ErrInvalidLevel = errors.New("invalid employee level")
	ErrInvalidInput = errors.New("invalid employee")
)

type CreateEmployeeDTO struct {
	Name     string `json:"name"      binding:"required"`
	Position string `json:"position"  binding:"required"`
	Level    string `json:"level"     binding:"required"`
	ImageURL string `json:"image_url"`
	Order    int    `json:"order"`
}

type UpdateEmployeeDTO struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Level    *string `json:"level"`
	ImageURL *string `json:"image_url"`
	Order    *int    `json:"order"`
}

func parseLevel(raw string) (models.EmployeeLevel, error) {
	level := models.EmployeeLevel(strings.ToUpper(strings.TrimSpace(raw)))
	if !level.Valid() {
		return "", ErrInvalidLevel
	}
	return level, nil
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns staff by display order. An empty level lists everyone.
func (s *Service) List(ctx context.Context, level string) ([]models.EmployeeModel, error) {
	tx := s.db.WithContext(ctx).Order("sort_order ASC").Order("created_at ASC")
	if level != "" {
		l, err := parseLevel(level)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("level = ?", l)
	}
	items := []models.EmployeeModel{}
	return items, tx.Find(&items).Error
}

func (s *Service) Get(ctx context.Context, id string) (*models.EmployeeModel, error) {
	var e models.EmployeeModel
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateEmployeeDTO) (*models.EmployeeModel, error) {
	level, err := parseLevel(dto.Level)
	if err != nil {
		return nil, err
	}
	e := models.EmployeeModel{
		Name:     strings.TrimSpace(dto.Name),
		Position: strings.TrimSpace(dto.Position),
		Level:    level,
		ImageURL: strings.TrimSpace(dto.ImageURL),
		Order:    dto.Order,
	}
	if e.Name == "" || e.Position == "" {
		return nil, ErrInvalidInput
	}
	return &e, s.db.WithContext(ctx).Create(&e).Error
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateEmployeeDTO) (*models.EmployeeModel, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		e.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Position != nil {
		e.Position = strings.TrimSpace(*dto.Position)
	}
	if dto.Level != nil {
		if e.Level, err = parseLevel(*dto.Level); err != nil {
			return nil, err
		}
	}
	if dto.ImageURL != nil {
		e.ImageURL = strings.TrimSpace(*dto.ImageURL)
	}
	if dto.Order != nil {
		e.Order = *dto.Order
	}
	if e.Name == "" || e.Position == "" {
		return nil, ErrInvalidInput
	}
	return e, s.db.WithContext(ctx).Save(e).Error
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/employees")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Pegawai tidak ditemukan")
	case errors.Is(err, ErrInvalidLevel):
		response.BadRequest(c, "Level harus salah satu dari PIMPINAN, TENAGA_PENDIDIK, TENAGA_KEPENDIDIKAN, TENAGA_OPERASIONAL")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, "Nama dan jabatan wajib diisi")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("level"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, e)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEmployeeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, e)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateEmployeeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, e)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
