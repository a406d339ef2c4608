package program

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/pagination"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/programs")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/images", h.listImages)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/images", h.addImage)
	a.DELETE("/:id/images/:imageId", h.removeImage)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Program tidak ditemukan")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, "Nama dan deskripsi program wajib diisi")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromRequest(c)
	items, pag, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if pag != nil {
		response.Paged(c, items, *pag)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProgramDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateProgramDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listImages(c *gin.Context) {
	images, err := h.svc.Images(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, images)
}

func (h *Handler) addImage(c *gin.Context) {
	var dto ImageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	img, err := h.svc.AddImage(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, img)
}

func (h *Handler) removeImage(c *gin.Context) {
	if err := h.svc.RemoveImage(c.Request.Context(), c.Param("id"), c.Param("imageId")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
