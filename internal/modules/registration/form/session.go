// Package form drives one registration attempt: it snapshots the enabled
// fields, collects and validates values, renders the message and hands the
// WhatsApp deep link to an Opener.
package form

import (
	"context"
	"strings"

	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/registration/message"
	"go.uber.org/zap"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Source supplies the configuration a session snapshots on Load. Each read
// is independent; any of them may fail without affecting the others.
type Source interface {
	EnabledFields(ctx context.Context) ([]fields.Definition, error)
	Template(ctx context.Context) (string, error)
	PhoneNumber(ctx context.Context) (string, error)
}

// Opener performs the external handoff. It is fire-and-forget.
type Opener interface {
	Open(link string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(link string)

func (f OpenerFunc) Open(link string) { f(link) }

// Result is what a successful Submit handed off.
type Result struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Session is one user's pass through the registration form. It is not safe
// for concurrent use.
type Session struct {
	source        Source
	opener        Opener
	fallbackPhone string
	log           *zap.Logger

	state    State
	fields   []fields.Definition
	template string
	phone    string
	loadErrs []error
	draft    map[string]string
	errs     map[string]string
}

// NewSession returns a session in StateLoading. fallbackPhone is used when
// the source has no phone number.
func NewSession(source Source, opener Opener, fallbackPhone string, log *zap.Logger) *Session {
	return &Session{
		source:        source,
		opener:        opener,
		fallbackPhone: fallbackPhone,
		log:           log.Named("registration-form"),
		state:         StateLoading,
		draft:         map[string]string{},
		errs:          map[string]string{},
	}
}

// Load snapshots fields, template and phone number, then enters StateReady.
// Read failures never block: each one is logged, recorded as a
// *ConfigLoadError (see LoadErrors) and replaced by its default.
func (s *Session) Load(ctx context.Context) error {
	if s.state != StateLoading {
		return ErrInvalidState
	}

	defs, err := s.source.EnabledFields(ctx)
	if err != nil {
		s.degrade(ResourceFields, err)
		defs = fields.Enabled(fields.Defaults())
	}
	s.fields = fields.Enabled(defs)

	tmpl, err := s.source.Template(ctx)
	if err != nil {
		s.degrade(ResourceTemplate, err)
		tmpl = ""
	}
	if strings.TrimSpace(tmpl) == "" {
		tmpl = message.DefaultTemplate()
	}
	s.template = tmpl

	phone, err := s.source.PhoneNumber(ctx)
	if err != nil {
		s.degrade(ResourcePhone, err)
		phone = ""
	}
	if NormalizePhone(phone) == "" {
		phone = s.fallbackPhone
	}
	s.phone = phone

	s.resetDraft()
	s.state = StateReady
	return nil
}

func (s *Session) degrade(res Resource, err error) {
	loadErr := &ConfigLoadError{Resource: res, Err: err}
	s.loadErrs = append(s.loadErrs, loadErr)
	s.log.Warn("registration config unavailable, using default", zap.String("resource", string(res)), zap.Error(err))
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Degraded reports whether any read in Load fell back to a default.
func (s *Session) Degraded() bool { return len(s.loadErrs) > 0 }

// LoadErrors returns the *ConfigLoadError values recorded by Load.
func (s *Session) LoadErrors() []error {
	return append([]error(nil), s.loadErrs...)
}

// Fields returns the enabled-field snapshot in display order.
func (s *Session) Fields() []fields.Definition {
	return append([]fields.Definition(nil), s.fields...)
}

func (s *Session) Template() string { return s.template }

func (s *Session) PhoneNumber() string { return s.phone }

// Values returns a copy of the draft.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.draft))
	for k, v := range s.draft {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the pending per-field messages.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Set records value for an enabled field and clears its pending error.
func (s *Session) Set(name, value string) error {
	if s.state != StateReady {
		return ErrInvalidState
	}
	if _, ok := s.draft[name]; !ok {
		return ErrUnknownField
	}
	s.draft[name] = value
	delete(s.errs, name)
	return nil
}

// Validate checks the draft, replaces the pending errors with the result
// and returns it.
func (s *Session) Validate() map[string]string {
	s.errs = Validate(s.fields, s.draft)
	return s.Errors()
}

// Submit validates the draft and, when it is clean, renders the message,
// opens the deep link and resets the draft. On validation failure it
// returns a *ValidationError and the session stays Ready.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if s.state != StateReady {
		return Result{}, ErrInvalidState
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.state = StateSubmitting
	if errs := s.Validate(); len(errs) > 0 {
		s.state = StateReady
		return Result{}, &ValidationError{Fields: errs}
	}

	text := message.Render(s.template, s.fields, s.draft, message.VariantRegistration)
	res := Result{Message: text, URL: DeepLink(s.phone, text)}
	if s.opener != nil {
		s.opener.Open(res.URL)
	}

	s.resetDraft()
	s.state = StateSubmitted
	return res, nil
}

// Reset discards the draft and pending errors. A submitted session becomes
// Ready again for another registration.
func (s *Session) Reset() error {
	switch s.state {
	case StateReady, StateSubmitted:
		s.resetDraft()
		s.state = StateReady
		return nil
	}
	return ErrInvalidState
}

func (s *Session) resetDraft() {
	s.draft = make(map[string]string, len(s.fields))
	for _, def := range s.fields {
		s.draft[def.Name] = ""
	}
	s.errs = map[string]string{}
}
