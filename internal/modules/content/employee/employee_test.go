package employee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"github.com/zivana-montessori/core/internal/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(databasetest.Open(t))
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return r, svc
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLevelValidated(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/employees", `{"name":"Bu Rina","position":"Guru","level":"KEPALA"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	e, err := svc.Create(context.Background(), &CreateEmployeeDTO{Name: "Bu Rina", Position: "Guru", Level: "tenaga_pendidik"})
	require.NoError(t, err)
	assert.Equal(t, models.LevelTenagaPendidik, e.Level)

	bad := "JANITOR"
	_, err = svc.Update(context.Background(), e.ID, &UpdateEmployeeDTO{Level: &bad})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestListOrderedAndFiltered(t *testing.T) {
	r, svc := newTestRouter(t)
	ctx := context.Background()
	for _, in := range []CreateEmployeeDTO{
		{Name: "C", Position: "Guru", Level: "TENAGA_PENDIDIK", Order: 3},
		{Name: "A", Position: "Kepala Sekolah", Level: "PIMPINAN", Order: 1},
		{Name: "B", Position: "Guru", Level: "TENAGA_PENDIDIK", Order: 2},
	} {
		_, err := svc.Create(ctx, &in)
		require.NoError(t, err)
	}

	var list struct {
		Data []models.EmployeeModel `json:"data"`
	}
	w := do(r, http.MethodGet, "/api/v1/employees", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{list.Data[0].Name, list.Data[1].Name, list.Data[2].Name})

	w = do(r, http.MethodGet, "/api/v1/employees?level=TENAGA_PENDIDIK", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/employees?level=nope", "").Code)
}

func TestDeleteMissing(t *testing.T) {
	r, _ := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/v1/employees/missing", "").Code)
}
