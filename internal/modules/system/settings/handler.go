package settings

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings")
	g.GET("", h.list)
	g.GET("/:key", h.get)

	a := g.Group("", authMW)
	a.POST("", h.upsert)
	a.PUT("/:key", h.update)
	a.DELETE("/:key", h.remove)
}

type UpsertDTO struct {
	Key         string  `json:"key"         binding:"required"`
	Value       *string `json:"value"       binding:"required"`
	Description string  `json:"description"`
}

type UpdateDTO struct {
	Value       *string `json:"value"       binding:"required"`
	Description *string `json:"description"`
}

type settingValue struct {
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.All(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make(map[string]settingValue, len(rows))
	for _, row := range rows {
		out[row.Key] = settingValue{Value: row.Value, Description: row.Description, UpdatedAt: row.UpdatedAt}
	}
	response.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Upsert(c.Request.Context(), dto.Key, *dto.Value, dto.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(c.Request.Context(), c.Param("key"), *dto.Value, dto.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("key")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Pengaturan tidak ditemukan")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
