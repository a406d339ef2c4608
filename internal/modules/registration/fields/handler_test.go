package fields

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	adminOnly := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer admin" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	NewHandler(NewRegistry(NewMemoryStore(), zap.NewNop())).RegisterRoutes(r.Group("/api/v1"), adminOnly)
	return r
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

func TestHandlerListIncludesWidget(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/form-fields", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Name   string `json:"name"`
			Kind   string `json:"kind"`
			Widget Widget `json:"widget"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 6)
	assert.Equal(t, "childName", body.Data[0].Name)
	assert.Equal(t, Widget{Element: "input", InputType: "email", InputMode: "email"}, body.Data[2].Widget)
	assert.Equal(t, "textarea", body.Data[4].Widget.Element)
}

func TestHandlerMutationsRequireAdmin(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/form-fields", `{"name":"x","label":"X","kind":"text"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/form-fields/email", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodGet, "/api/v1/form-fields", "", false)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"create", http.MethodPost, "/api/v1/form-fields", `{"name":"school","label":"Asal Sekolah","kind":"text"}`, http.StatusCreated},
		{"duplicate", http.MethodPost, "/api/v1/form-fields", `{"name":"email","label":"E","kind":"email"}`, http.StatusConflict},
		{"missing kind", http.MethodPost, "/api/v1/form-fields", `{"name":"y","label":"Y"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/v1/form-fields", `{`, http.StatusBadRequest},
		{"patch", http.MethodPatch, "/api/v1/form-fields/address", `{"enabled":false}`, http.StatusOK},
		{"rename", http.MethodPut, "/api/v1/form-fields/address", `{"name":"addr"}`, http.StatusBadRequest},
		{"patch missing", http.MethodPatch, "/api/v1/form-fields/nope", `{"enabled":false}`, http.StatusNotFound},
		{"get missing", http.MethodGet, "/api/v1/form-fields/nope", "", http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/v1/form-fields/school", "", http.StatusNoContent},
		{"delete again", http.MethodDelete, "/api/v1/form-fields/school", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := do(r, http.MethodGet, "/api/v1/form-fields/enabled", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"name":"address"`)
}
