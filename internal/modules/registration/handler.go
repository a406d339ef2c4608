package registration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/registration/form"
	"github.com/zivana-montessori/core/internal/modules/registration/message"
	"github.com/zivana-montessori/core/internal/pkg/metrics"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Recorder receives registration events; *metrics.Metrics implements it.
type Recorder interface {
	ObserveSubmission(outcome string)
	ObserveFallback(resource string)
}

type Deps struct {
	Registry      *fields.Registry
	Settings      Settings
	FallbackPhone string
	Log           *zap.Logger
	Recorder      Recorder
	// SubmitLimiter guards the public submit endpoint. Optional.
	SubmitLimiter gin.HandlerFunc
}

type Handler struct {
	registry      *fields.Registry
	settings      Settings
	source        form.Source
	fallbackPhone string
	log           *zap.Logger
	recorder      Recorder
	submitLimiter gin.HandlerFunc
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		registry:      d.Registry,
		settings:      d.Settings,
		source:        NewSource(d.Registry, d.Settings),
		fallbackPhone: d.FallbackPhone,
		log:           d.Log.Named("registration"),
		recorder:      d.Recorder,
		submitLimiter: d.SubmitLimiter,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/registration")
	g.GET("/form", h.getForm)
	if h.submitLimiter != nil {
		g.POST("/submit", h.submitLimiter, h.submit)
	} else {
		g.POST("/submit", h.submit)
	}

	a := g.Group("", authMW)
	a.POST("/preview", h.preview)
	a.POST("/template/generate", h.generateTemplate)
}

type formField struct {
	fields.Definition
	Widget fields.Widget `json:"widget"`
}

type formResponse struct {
	Fields   []formField       `json:"fields"`
	Values   map[string]string `json:"values"`
	Degraded bool              `json:"degraded"`
}

type SubmitDTO struct {
	Values map[string]string `json:"values"`
}

type PreviewDTO struct {
	Template *string           `json:"template"`
	Values   map[string]string `json:"values"`
}

// newSession loads a fresh form session for this request.
func (h *Handler) newSession(c *gin.Context, opener form.Opener) *form.Session {
	s := form.NewSession(h.source, opener, h.fallbackPhone, h.log)
	_ = s.Load(c.Request.Context())
	for _, err := range s.LoadErrors() {
		var loadErr *form.ConfigLoadError
		if errors.As(err, &loadErr) && h.recorder != nil {
			h.recorder.ObserveFallback(string(loadErr.Resource))
		}
	}
	return s
}

func (h *Handler) getForm(c *gin.Context) {
	s := h.newSession(c, nil)
	defs := s.Fields()
	out := formResponse{
		Fields:   make([]formField, 0, len(defs)),
		Values:   s.Values(),
		Degraded: s.Degraded(),
	}
	for _, d := range defs {
		out.Fields = append(out.Fields, formField{Definition: d, Widget: d.Kind.Widget()})
	}
	response.OK(c, out)
}

func (h *Handler) submit(c *gin.Context) {
	values, isFormPost, err := bindValues(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s := h.newSession(c, form.OpenerFunc(func(link string) {
		h.log.Info("registration handed off", zap.Int("link_length", len(link)))
	}))
	for name, value := range values {
		// Values for fields outside the snapshot are ignored.
		if err := s.Set(name, value); err != nil && !errors.Is(err, form.ErrUnknownField) {
			response.InternalError(c, err)
			return
		}
	}

	res, err := s.Submit(c.Request.Context())
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		h.observe(metrics.OutcomeInvalid)
		response.Invalid(c, verr.Fields)
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	h.observe(metrics.OutcomeHandedOff)
	if isFormPost {
		c.Redirect(http.StatusSeeOther, res.URL)
		return
	}
	response.OK(c, res)
}

func (h *Handler) observe(outcome string) {
	if h.recorder != nil {
		h.recorder.ObserveSubmission(outcome)
	}
}

// bindValues accepts either a JSON body or a classic HTML form post.
func bindValues(c *gin.Context) (map[string]string, bool, error) {
	switch c.ContentType() {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := c.Request.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, true, err
		}
		values := make(map[string]string, len(c.Request.PostForm))
		for name := range c.Request.PostForm {
			values[name] = c.Request.PostForm.Get(name)
		}
		return values, true, nil
	default:
		var dto SubmitDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			return nil, false, err
		}
		return dto.Values, false, nil
	}
}

func (h *Handler) preview(c *gin.Context) {
	var dto PreviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	defs, err := h.registry.ListEnabled(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	var tmpl string
	if dto.Template != nil {
		tmpl = *dto.Template
	} else if tmpl, err = h.settings.WhatsAppTemplate(ctx); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"template": tmpl,
		"message":  message.Render(tmpl, defs, dto.Values, message.VariantPreview),
	})
}

func (h *Handler) generateTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	defs, err := h.registry.ListEnabled(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	tmpl := message.Generate(defs)
	if err := h.settings.SaveWhatsAppTemplate(ctx, tmpl); err != nil {
		response.InternalError(c, err)
		return
	}
	h.log.Info("whatsapp template regenerated", zap.Int("fields", len(defs)))
	response.OK(c, gin.H{"template": tmpl})
}
