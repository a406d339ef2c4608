package syndication

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"github.com/zivana-montessori/core/internal/models"
	"gorm.io/gorm"
)

const site = "https://zivana.sch.id"

func setup(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := databasetest.Open(t)
	h := NewHandler(db, site)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return db, r
}

func seedArticle(t *testing.T, db *gorm.DB, title string, published bool, at time.Time) models.ArticleModel {
	t.Helper()
	a := models.ArticleModel{Title: title, Author: "Bu Rina", Content: "Halo **orang tua**", Published: published}
	if published {
		a.PublishedAt = &at
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRSSListsPublishedArticlesNewestFirst(t *testing.T) {
	db, r := setup(t)
	older := seedArticle(t, db, "Pentas Seni", true, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	newer := seedArticle(t, db, "Hari Kartini", true, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	seedArticle(t, db, "Draf", false, time.Time{})

	w := get(r, "/feed.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

	var doc rssDoc
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, newer.ID, doc.Channel.Items[0].GUID)
	assert.Equal(t, older.ID, doc.Channel.Items[1].GUID)
	assert.Equal(t, site+"/artikel/"+newer.ID, doc.Channel.Items[0].Link)
	assert.Contains(t, w.Body.String(), "<![CDATA[<p>Halo <strong>orang tua</strong></p>]]>")
}

func TestAtomFeed(t *testing.T) {
	db, r := setup(t)
	seedArticle(t, db, "Hari Kartini", true, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	w := get(r, "/feed?type=atom")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/atom+xml; charset=utf-8", w.Header().Get("Content-Type"))

	var doc atomDoc
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, siteTitle, doc.Title)
	require.Len(t, doc.Entries, 1)
	updated, err := time.Parse(time.RFC3339, doc.Entries[0].Updated)
	require.NoError(t, err)
	assert.True(t, updated.Equal(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Bu Rina", doc.Entries[0].Author.Name)
	assert.Equal(t, "Halo orang tua", doc.Entries[0].Summary)
}

func TestSitemap(t *testing.T) {
	db, r := setup(t)
	a := seedArticle(t, db, "Hari Kartini", true, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	seedArticle(t, db, "Draf", false, time.Time{})

	w := get(r, "/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)

	var doc urlSet
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	locs := make([]string, len(doc.URLs))
	for i, u := range doc.URLs {
		locs[i] = u.Loc
	}
	assert.Equal(t, []string{
		site,
		site + "/profil",
		site + "/aktivitas",
		site + "/pendaftaran",
		site + "/artikel",
		site + "/artikel/" + a.ID,
	}, locs)
	assert.Equal(t, "2026-03-01", doc.URLs[0].LastMod)
	assert.Equal(t, "2026-03-01", doc.URLs[2].LastMod)
}
