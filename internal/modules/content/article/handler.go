package article

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/middleware"
	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/markdown"
	"github.com/zivana-montessori/core/internal/pkg/pagination"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

const excerptLength = 160

type listItem struct {
	models.ArticleModel
	Excerpt string `json:"excerpt"`
}

type detail struct {
	models.ArticleModel
	HTML string `json:"html"`
}

func toListItems(items []models.ArticleModel) []listItem {
	out := make([]listItem, len(items))
	for i, a := range items {
		out[i] = listItem{ArticleModel: a, Excerpt: markdown.Excerpt(a.Content, excerptLength)}
	}
	return out
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes expects OptionalAuth to have run so admins can see drafts.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/articles")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/related", h.related)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Artikel tidak ditemukan")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, "Judul, isi dan penulis artikel wajib diisi")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromRequest(c)
	items, pag, err := h.svc.List(c.Request.Context(), middleware.IsAuthenticated(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if pag != nil {
		response.Paged(c, toListItems(items), *pag)
		return
	}
	response.OK(c, toListItems(items))
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.IsAuthenticated(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, detail{ArticleModel: *a, HTML: markdown.Render(a.Content)})
}

func (h *Handler) related(c *gin.Context) {
	items, err := h.svc.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toListItems(items))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
