package registration

import (
	"context"

	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/registration/form"
)

// Settings is the slice of the settings service the registration flow uses.
type Settings interface {
	WhatsAppTemplate(ctx context.Context) (string, error)
	WhatsAppNumber(ctx context.Context) (string, error)
	SaveWhatsAppTemplate(ctx context.Context, template string) error
}

type source struct {
	registry *fields.Registry
	settings Settings
}

// NewSource reads the form configuration from the field registry and settings.
func NewSource(registry *fields.Registry, settings Settings) form.Source {
	return &source{registry: registry, settings: settings}
}

func (s *source) EnabledFields(ctx context.Context) ([]fields.Definition, error) {
	return s.registry.ListEnabled(ctx)
}

func (s *source) Template(ctx context.Context) (string, error) {
	return s.settings.WhatsAppTemplate(ctx)
}

func (s *source) PhoneNumber(ctx context.Context) (string, error) {
	return s.settings.WhatsAppNumber(ctx)
}
