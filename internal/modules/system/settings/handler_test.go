package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
)

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(databasetest.Open(t))).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/v1/settings", `{"key":"whatsapp_number"}`).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/settings", `{"key":"whatsapp_number","value":"6281"}`).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/settings", `{"key":"empty","value":""}`).Code)

	w := do(http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all map[string]struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, "6281", all["whatsapp_number"].Value)
	assert.Contains(t, all, "empty")

	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/api/v1/settings/whatsapp_number", `{"value":"6282"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPut, "/api/v1/settings/nope", `{"value":"1"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/settings/nope", "").Code)

	w = do(http.MethodGet, "/api/v1/settings/whatsapp_number", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":"6282"`)

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/api/v1/settings/whatsapp_number", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/api/v1/settings/whatsapp_number", "").Code)
}
