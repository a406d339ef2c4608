// Package syndication serves the public RSS/Atom article feed and the sitemap.
package syndication

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	siteTitle       = "TK Zivana Montessori"
	siteDescription = "Kabar, kegiatan, dan artikel dari TK Zivana Montessori"
	feedLimit       = 20
)

type Handler struct {
	db      *gorm.DB
	siteURL string
	now     func() time.Time
}

// NewHandler builds links against siteURL, the public web origin.
func NewHandler(db *gorm.DB, siteURL string) *Handler {
	return &Handler{db: db, siteURL: siteURL, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", func(c *gin.Context) {
		h.renderFeed(c, c.DefaultQuery("type", "rss"))
	})
	rg.GET("/feed.xml", func(c *gin.Context) { h.renderFeed(c, "rss") })
	rg.GET("/atom.xml", func(c *gin.Context) { h.renderFeed(c, "atom") })
	rg.GET("/sitemap.xml", h.renderSitemap)
	rg.GET("/sitemap", h.renderSitemap)
}

func (h *Handler) renderFeed(c *gin.Context, kind string) {
	items, err := h.feedItems(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating feed")
		return
	}
	var (
		body        []byte
		contentType string
	)
	if kind == "atom" {
		body, err = buildAtom(h.siteURL, h.now(), items)
		contentType = "application/atom+xml; charset=utf-8"
	} else {
		body, err = buildRSS(h.siteURL, h.now(), items)
		contentType = "application/rss+xml; charset=utf-8"
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating feed")
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) renderSitemap(c *gin.Context) {
	urls, err := h.sitemapURLs(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating sitemap")
		return
	}
	body, err := buildSitemap(urls)
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}
