package fields

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

type Handler struct{ reg *Registry }

func NewHandler(reg *Registry) *Handler { return &Handler{reg: reg} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/form-fields")
	g.GET("", h.list)
	g.GET("/enabled", h.listEnabled)
	g.GET("/:name", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:name", h.upsert)
	a.PATCH("/:name", h.upsert)
	a.DELETE("/:name", h.remove)
}

// fieldResponse adds the render widget next to the stored definition.
type fieldResponse struct {
	Definition
	Widget Widget `json:"widget"`
}

func toResponse(d Definition) fieldResponse {
	return fieldResponse{Definition: d, Widget: d.Kind.Widget()}
}

func toResponses(defs []Definition) []fieldResponse {
	out := make([]fieldResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toResponse(d))
	}
	return out
}

func (h *Handler) list(c *gin.Context) {
	defs, err := h.reg.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponses(defs))
}

func (h *Handler) listEnabled(c *gin.Context) {
	defs, err := h.reg.ListEnabled(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponses(defs))
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.reg.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	d, err := h.reg.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toResponse(d))
}

func (h *Handler) upsert(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	d, err := h.reg.Upsert(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.reg.Remove(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Field tidak ditemukan")
	case errors.Is(err, ErrConflict):
		response.Conflict(c, "Nama field sudah digunakan")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
	default:
		response.InternalError(c, err)
	}
}
