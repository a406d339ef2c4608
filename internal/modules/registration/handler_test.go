package registration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/registration/message"
	"github.com/zivana-montessori/core/internal/pkg/metrics"
	"go.uber.org/zap"
)

type fakeSettings struct {
	mu       sync.Mutex
	template string
	phone    string
	err      error
	saved    string
}

func (f *fakeSettings) WhatsAppTemplate(context.Context) (string, error) {
	return f.template, f.err
}

func (f *fakeSettings) WhatsAppNumber(context.Context) (string, error) {
	return f.phone, f.err
}

func (f *fakeSettings) SaveWhatsAppTemplate(_ context.Context, template string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = template
	return nil
}

type fakeRecorder struct {
	outcomes  []string
	fallbacks []string
}

func (r *fakeRecorder) ObserveSubmission(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *fakeRecorder) ObserveFallback(resource string)  { r.fallbacks = append(r.fallbacks, resource) }

const fallbackPhone = "6280000000000"

func newTestRouter(t *testing.T, settings *fakeSettings, rec *fakeRecorder) *gin.Engine {
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
	NewHandler(Deps{
		Registry:      fields.NewRegistry(fields.NewMemoryStore(), zap.NewNop()),
		Settings:      settings,
		FallbackPhone: fallbackPhone,
		Log:           zap.NewNop(),
		Recorder:      rec,
	}).RegisterRoutes(r.Group("/api/v1"), adminOnly)
	return r
}

func doJSON(r http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer admin")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetFormSnapshot(t *testing.T) {
	rec := &fakeRecorder{}
	r := newTestRouter(t, &fakeSettings{phone: "6281111111111"}, rec)

	w := doJSON(r, http.MethodGet, "/api/v1/registration/form", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Fields []struct {
			Name   string        `json:"name"`
			Widget fields.Widget `json:"widget"`
		} `json:"fields"`
		Values   map[string]string `json:"values"`
		Degraded bool              `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Fields, 6)
	assert.Equal(t, "childName", body.Fields[0].Name)
	assert.Equal(t, "tel", body.Fields[3].Widget.InputType)
	assert.Len(t, body.Values, 6)
	assert.Equal(t, "", body.Values["email"])
	assert.False(t, body.Degraded)
	assert.Empty(t, rec.fallbacks)
}

func TestGetFormDegradesWhenSettingsFail(t *testing.T) {
	rec := &fakeRecorder{}
	r := newTestRouter(t, &fakeSettings{err: errors.New("db down")}, rec)

	w := doJSON(r, http.MethodGet, "/api/v1/registration/form", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
	assert.Equal(t, []string{"template", "phone"}, rec.fallbacks)
}

func TestSubmitJSONHandsOff(t *testing.T) {
	rec := &fakeRecorder{}
	r := newTestRouter(t, &fakeSettings{phone: "+62 811-1111-1111", template: "Halo {{childName}} ({{parentName}})"}, rec)

	body := `{"values":{"childName":" Budi ","parentName":"Sari","email":"sari@example.com","phone":"081234567890","unknown":"x"}}`
	w := doJSON(r, http.MethodPost, "/api/v1/registration/submit", body, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		URL     string `json:"url"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res.URL, "https://wa.me/6281111111111?text="), res.URL)
	assert.True(t, strings.HasPrefix(res.Message, "Halo Budi (Sari)"), res.Message)
	assert.Contains(t, res.Message, "*Email:* sari@example.com")
	assert.True(t, strings.HasSuffix(res.Message, message.ClosingLine))
	assert.NotContains(t, res.URL, "+")
	assert.Equal(t, []string{metrics.OutcomeHandedOff}, rec.outcomes)
}

func TestSubmitJSONValidationErrors(t *testing.T) {
	rec := &fakeRecorder{}
	r := newTestRouter(t, &fakeSettings{}, rec)

	body := `{"values":{"parentName":"Sari","email":"not-an-email","phone":"0812"}}`
	w := doJSON(r, http.MethodPost, "/api/v1/registration/submit", body, false)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, map[string]string{
		"childName": "Nama Anak harus diisi",
		"email":     "Email tidak valid",
		"phone":     "Nomor telepon minimal 10 digit",
	}, res.Errors)
	assert.Equal(t, []string{metrics.OutcomeInvalid}, rec.outcomes)
}

func TestSubmitFormPostRedirects(t *testing.T) {
	r := newTestRouter(t, &fakeSettings{}, &fakeRecorder{})

	form := url.Values{}
	form.Set("childName", "Budi")
	form.Set("parentName", "Sari")
	form.Set("email", "sari@example.com")
	form.Set("phone", "081234567890")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://wa.me/"+fallbackPhone+"?text="))
}

func TestSubmitRejectsMalformedJSON(t *testing.T) {
	r := newTestRouter(t, &fakeSettings{}, &fakeRecorder{})
	w := doJSON(r, http.MethodPost, "/api/v1/registration/submit", `{"values":`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewRequiresAuth(t *testing.T) {
	r := newTestRouter(t, &fakeSettings{}, &fakeRecorder{})
	w := doJSON(r, http.MethodPost, "/api/v1/registration/preview", `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPreviewRendersGivenTemplate(t *testing.T) {
	r := newTestRouter(t, &fakeSettings{template: "saved {{childName}}"}, &fakeRecorder{})

	w := doJSON(r, http.MethodPost, "/api/v1/registration/preview",
		`{"template":"Halo {{childName}}","values":{"childName":"Budi"}}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Halo Budi", res.Message)

	w = doJSON(r, http.MethodPost, "/api/v1/registration/preview", `{"values":{"childName":"Budi"}}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "saved Budi", res.Message)
}

func TestGenerateTemplateSaves(t *testing.T) {
	settings := &fakeSettings{}
	r := newTestRouter(t, settings, &fakeRecorder{})

	w := doJSON(r, http.MethodPost, "/api/v1/registration/template/generate", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Template string `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res.Template, message.Header))
	assert.Contains(t, res.Template, "{{childName}}")
	assert.Equal(t, res.Template, settings.saved)
}
