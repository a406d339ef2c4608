package aggregate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"github.com/zivana-montessori/core/internal/models"
)

func TestStatCounts(t *testing.T) {
	db := databasetest.Open(t)
	now := time.Now()
	require.NoError(t, db.Create(&models.ProgramModel{Name: "TK A", Description: "d",
		Images: []models.ProgramImageModel{{URL: "/a.jpg"}, {URL: "/b.jpg"}}}).Error)
	require.NoError(t, db.Create(&models.ArticleModel{Title: "a", Content: "c", Author: "x", Published: true, PublishedAt: &now}).Error)
	require.NoError(t, db.Create(&models.ArticleModel{Title: "b", Content: "c", Author: "x"}).Error)
	require.NoError(t, db.Create(&models.FormFieldModel{Name: "childName", Label: "Nama Anak", Kind: "text", Enabled: true}).Error)
	require.NoError(t, db.Create(&models.FormFieldModel{Name: "note", Label: "Catatan", Kind: "textarea", Enabled: false}).Error)
	require.NoError(t, db.Create(&models.AdminSession{UserID: "u", ExpiresAt: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.AdminSession{UserID: "u", ExpiresAt: now.Add(-time.Hour)}).Error)

	st, err := NewService(db).Stat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stat{
		Programs:       1,
		ProgramImages:  2,
		Articles:       2,
		Published:      1,
		Drafts:         1,
		FormFields:     2,
		EnabledFields:  1,
		ActiveSessions: 1,
	}, st)
}

func TestStatRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(databasetest.Open(t))
	r := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), deny)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/aggregate/stat", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/aggregate/stat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var st Stat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Zero(t, st.Programs)
}
