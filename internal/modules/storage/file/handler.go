package file

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	local *LocalStore
}

// NewHandler serves uploads; local may be nil when every upload goes to S3.
func NewHandler(svc *Service, local *LocalStore) *Handler {
	return &Handler{svc: svc, local: local}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/files")
	g.POST("/upload", authMW, h.upload)
	g.GET("/:name", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File wajib diunggah")
		return
	}
	if fh.Size > h.svc.maxBytes {
		h.tooLarge(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	out, err := h.svc.UploadImage(c.Request.Context(), f)
	switch {
	case errors.Is(err, ErrTooLarge):
		h.tooLarge(c)
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrEmpty):
		response.BadRequest(c, "Hanya file gambar (JPG, PNG, GIF, WEBP) yang diizinkan")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, out)
	}
}

func (h *Handler) tooLarge(c *gin.Context) {
	response.BadRequest(c, fmt.Sprintf("Ukuran file maksimal %d MB", h.svc.maxBytes>>20))
}

func (h *Handler) get(c *gin.Context) {
	if h.local == nil {
		response.NotFound(c)
		return
	}
	path, ok := h.local.Path(c.Param("name"))
	if !ok {
		response.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}
