package syndication

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/zivana-montessori/core/internal/models"
)

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapURLs lists the public pages: the fixed sections of the site and one
// entry per published article.
func (h *Handler) sitemapURLs(ctx context.Context) ([]sitemapURL, error) {
	db := h.db.WithContext(ctx)
	today := h.now()

	var latestProgram models.ProgramModel
	programMod := today
	if err := db.Order("updated_at DESC").Limit(1).Find(&latestProgram).Error; err != nil {
		return nil, err
	}
	if latestProgram.ID != "" {
		programMod = latestProgram.UpdatedAt
	}

	urls := []sitemapURL{
		{Loc: h.siteURL, LastMod: day(today), ChangeFreq: "daily", Priority: 1.0},
		{Loc: h.siteURL + "/profil", ChangeFreq: "monthly", Priority: 0.7},
		{Loc: h.siteURL + "/aktivitas", LastMod: day(programMod), ChangeFreq: "weekly", Priority: 0.8},
		{Loc: h.siteURL + "/pendaftaran", ChangeFreq: "monthly", Priority: 0.9},
		{Loc: h.siteURL + "/artikel", LastMod: day(today), ChangeFreq: "daily", Priority: 0.8},
	}

	var articles []models.ArticleModel
	err := db.Select("id", "updated_at").
		Where("published = ?", true).
		Order("published_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:        articleURL(h.siteURL, a.ID),
			LastMod:    day(a.UpdatedAt),
			ChangeFreq: "monthly",
			Priority:   0.6,
		})
	}
	return urls, nil
}

func buildSitemap(urls []sitemapURL) ([]byte, error) {
	return marshalXML(urlSet{URLs: urls})
}

func day(t time.Time) string { return t.Format("2006-01-02") }
