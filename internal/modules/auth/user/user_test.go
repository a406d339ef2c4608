package user

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
	"github.com/zivana-montessori/core/internal/config"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"github.com/zivana-montessori/core/internal/middleware"
	"github.com/zivana-montessori/core/internal/models"
	jwtpkg "github.com/zivana-montessori/core/internal/pkg/jwt"
	sessionpkg "github.com/zivana-montessori/core/internal/pkg/session"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *Service
	sessions *sessionpkg.Manager
	router   *gin.Engine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := databasetest.Open(t)
	signer, err := jwtpkg.NewSigner("test-secret")
	require.NoError(t, err)
	sessions := sessionpkg.NewManager(db, signer, time.Hour)
	svc := NewService(db, sessions, zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, sessions).RegisterRoutes(r.Group("/api/v1"), middleware.Auth(sessions))
	return fixture{svc: svc, sessions: sessions, router: r}
}

func (f fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateAdminValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateAdmin(ctx, "not-an-email", "", "longenough")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.CreateAdmin(ctx, "admin@zivana.sch.id", "", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := f.svc.CreateAdmin(ctx, " Admin@Zivana.sch.id ", "", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "admin@zivana.sch.id", u.Email)
	assert.Equal(t, "admin@zivana.sch.id", u.Name)
	assert.NotEqual(t, "longenough", u.Password)

	_, err = f.svc.CreateAdmin(ctx, "admin@zivana.sch.id", "", "longenough")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestEnsureAdminOnlyOnEmptyTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdmin(ctx, config.AdminConfig{}))
	require.NoError(t, f.svc.EnsureAdmin(ctx, config.AdminConfig{Email: "a@zivana.sch.id", Password: "password1"}))
	require.NoError(t, f.svc.EnsureAdmin(ctx, config.AdminConfig{Email: "b@zivana.sch.id", Password: "password2"}))

	var count int64
	require.NoError(t, f.svc.db.Model(&models.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateAdmin(ctx, "admin@zivana.sch.id", "Admin", "password1")
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(ctx, "admin@zivana.sch.id", "wrong", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = f.svc.Login(ctx, "nobody@zivana.sch.id", "password1", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	w := f.do(http.MethodPost, "/api/v1/auth/login", `{"email":"admin@zivana.sch.id","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMeLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateAdmin(context.Background(), "admin@zivana.sch.id", "Admin", "password1")
	require.NoError(t, err)

	w := f.do(http.MethodPost, "/api/v1/auth/login", `{"email":"admin@zivana.sch.id","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "admin@zivana.sch.id", login.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(http.MethodGet, "/api/v1/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Admin"`)

	w = f.do(http.MethodGet, "/api/v1/auth/check", "", login.Token)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = f.do(http.MethodPost, "/api/v1/auth/logout", "", login.Token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/v1/auth/me", "", login.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.do(http.MethodGet, "/api/v1/auth/check", "", login.Token)
	assert.Contains(t, w.Body.String(), `"isGuest":true`)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.CreateAdmin(ctx, "admin@zivana.sch.id", "Admin", "password1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, u.ID, "wrong", "password2"), ErrInvalidCredentials)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, u.ID, "password1", "password1"), ErrPasswordSameAsOld)
	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "password1", "password2"))

	_, _, _, err = f.svc.Login(ctx, "admin@zivana.sch.id", "password2", "", "")
	assert.NoError(t, err)
}
