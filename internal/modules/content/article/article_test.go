package article

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"github.com/zivana-montessori/core/internal/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(databasetest.Open(t))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") == "Bearer admin" {
			c.Set(middleware.ContextKeyUserID, "admin")
		}
		c.Next()
	})
	adminOnly := func(c *gin.Context) {
		if !middleware.IsAuthenticated(c) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), adminOnly)
	return r, svc
}

func do(r http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer admin")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustCreate(t *testing.T, svc *Service, title string, published bool) string {
	t.Helper()
	a, err := svc.Create(context.Background(), &CreateArticleDTO{
		Title: title, Content: "Isi **" + title + "**", Author: "Guru", Published: published,
	})
	require.NoError(t, err)
	return a.ID
}

func TestDraftsHiddenFromVisitors(t *testing.T) {
	r, svc := newTestRouter(t)
	mustCreate(t, svc, "Terbit", true)
	draft := mustCreate(t, svc, "Draf", false)

	var list struct {
		Data []listItem `json:"data"`
	}
	w := do(r, http.MethodGet, "/api/v1/articles", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Terbit", list.Data[0].Title)
	assert.Equal(t, "Isi Terbit", list.Data[0].Excerpt)

	w = do(r, http.MethodGet, "/api/v1/articles", "", true)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/articles/"+draft, "", false).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/articles/"+draft, "", true).Code)
}

func TestDetailRendersSanitizedHTML(t *testing.T) {
	r, svc := newTestRouter(t)
	a, err := svc.Create(context.Background(), &CreateArticleDTO{
		Title: "Pentas Seni", Content: "## Acara\n\n<script>alert(1)</script>", Author: "Guru", Published: true,
	})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/articles/"+a.ID, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var body detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.HTML, "Acara</h2>")
	assert.NotContains(t, body.HTML, "<script")
}

func TestRelatedReturnsAtMostTwoPublished(t *testing.T) {
	r, svc := newTestRouter(t)
	id := mustCreate(t, svc, "Satu", true)
	mustCreate(t, svc, "Dua", true)
	mustCreate(t, svc, "Tiga", true)
	mustCreate(t, svc, "Draf", false)

	w := do(r, http.MethodGet, "/api/v1/articles/"+id+"/related", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []listItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, RelatedLimit)
	for _, a := range list.Data {
		assert.NotEqual(t, id, a.ID)
		assert.True(t, a.Published)
	}
}

func TestPublishedAtSetOnce(t *testing.T) {
	_, svc := newTestRouter(t)
	ctx := context.Background()
	first := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	id := mustCreate(t, svc, "Wisuda", false)
	a, err := svc.Get(ctx, id, true)
	require.NoError(t, err)
	assert.Nil(t, a.PublishedAt)

	yes, no := true, false
	a, err = svc.Update(ctx, id, &UpdateArticleDTO{Published: &yes})
	require.NoError(t, err)
	require.NotNil(t, a.PublishedAt)
	assert.True(t, first.Equal(*a.PublishedAt))

	svc.now = func() time.Time { return first.Add(24 * time.Hour) }
	_, err = svc.Update(ctx, id, &UpdateArticleDTO{Published: &no})
	require.NoError(t, err)
	a, err = svc.Update(ctx, id, &UpdateArticleDTO{Published: &yes})
	require.NoError(t, err)
	assert.True(t, first.Equal(*a.PublishedAt))
}

func TestCreateValidation(t *testing.T) {
	r, svc := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/articles", `{"title":"x","content":"y"}`, true).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/articles", `{"title":"x","content":"y","author":"z"}`, false).Code)

	w := do(r, http.MethodPost, "/api/v1/articles", `{"title":"x","content":"y","author":"z","published":true}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	published, drafts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, published)
	assert.Zero(t, drafts)
}
