package fields

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry is the ordered catalogue of form fields.
type Registry struct {
	store  Store
	log    *zap.Logger
	seedMu sync.Mutex
}

func NewRegistry(store Store, log *zap.Logger) *Registry {
	return &Registry{store: store, log: log.Named("form-fields")}
}

// CreateInput is the payload for Create. Nil pointers take their defaults:
// required and enabled are true, order is one past the current maximum.
type CreateInput struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Kind        string `json:"kind"`
	Required    *bool  `json:"required"`
	Enabled     *bool  `json:"enabled"`
	Order       *int   `json:"order"`
}

// Patch lists the attributes Upsert changes. Name may be sent back but must
// match the field being edited.
type Patch struct {
	Name        *string `json:"name"`
	Label       *string `json:"label"`
	Placeholder *string `json:"placeholder"`
	Kind        *string `json:"kind"`
	Required    *bool   `json:"required"`
	Enabled     *bool   `json:"enabled"`
	Order       *int    `json:"order"`
}

// ListAll returns every field sorted by order, ties in insertion order.
// An empty store is seeded with Defaults first.
func (r *Registry) ListAll(ctx context.Context) ([]Definition, error) {
	defs, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	if len(defs) == 0 {
		if defs, err = r.seed(ctx); err != nil {
			return nil, err
		}
	}
	sortDefinitions(defs)
	return defs, nil
}

// ListEnabled is ListAll restricted to enabled fields.
func (r *Registry) ListEnabled(ctx context.Context) ([]Definition, error) {
	defs, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Enabled(defs), nil
}

func (r *Registry) Get(ctx context.Context, name string) (Definition, error) {
	return r.store.Get(ctx, name)
}

// Create adds a new field.
func (r *Registry) Create(ctx context.Context, in CreateInput) (Definition, error) {
	def := Definition{
		Name:        strings.TrimSpace(in.Name),
		Label:       strings.TrimSpace(in.Label),
		Placeholder: strings.TrimSpace(in.Placeholder),
		Required:    true,
		Enabled:     true,
	}
	if !ValidName(def.Name) {
		return Definition{}, fmt.Errorf("%w: name must start with a letter and contain only letters, digits or underscores", ErrInvalidInput)
	}
	kind, ok := ParseKind(in.Kind)
	if !ok {
		return Definition{}, fmt.Errorf("%w: kind must be one of %v", ErrInvalidInput, Kinds())
	}
	def.Kind = kind
	if def.Label == "" {
		return Definition{}, fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if in.Required != nil {
		def.Required = *in.Required
	}
	if in.Enabled != nil {
		def.Enabled = *in.Enabled
	}

	existing, err := r.ListAll(ctx)
	if err != nil {
		return Definition{}, err
	}
	if in.Order != nil {
		def.Order = *in.Order
	} else {
		def.Order = nextOrder(existing)
	}

	created, err := r.store.Insert(ctx, def)
	if err != nil {
		return Definition{}, err
	}
	r.log.Info("form field created", zap.String("name", created.Name))
	return created, nil
}

// Upsert applies patch to an existing field. The name never changes.
func (r *Registry) Upsert(ctx context.Context, name string, patch Patch) (Definition, error) {
	def, err := r.store.Get(ctx, name)
	if err != nil {
		return Definition{}, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != name {
		return Definition{}, fmt.Errorf("%w: name cannot be changed", ErrInvalidInput)
	}
	if patch.Label != nil {
		def.Label = strings.TrimSpace(*patch.Label)
		if def.Label == "" {
			return Definition{}, fmt.Errorf("%w: label is required", ErrInvalidInput)
		}
	}
	if patch.Placeholder != nil {
		def.Placeholder = strings.TrimSpace(*patch.Placeholder)
	}
	if patch.Kind != nil {
		kind, ok := ParseKind(*patch.Kind)
		if !ok {
			return Definition{}, fmt.Errorf("%w: kind must be one of %v", ErrInvalidInput, Kinds())
		}
		def.Kind = kind
	}
	if patch.Required != nil {
		def.Required = *patch.Required
	}
	if patch.Enabled != nil {
		def.Enabled = *patch.Enabled
	}
	if patch.Order != nil {
		def.Order = *patch.Order
	}

	updated, err := r.store.Update(ctx, def)
	if err != nil {
		return Definition{}, err
	}
	r.log.Info("form field updated", zap.String("name", name))
	return updated, nil
}

// Remove deletes a field. Template tokens that refer to it are left alone.
func (r *Registry) Remove(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}
	r.log.Info("form field removed", zap.String("name", name))
	return nil
}

func (r *Registry) seed(ctx context.Context) ([]Definition, error) {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()

	defs, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	if len(defs) > 0 {
		return defs, nil
	}
	if err := r.store.Seed(ctx, Defaults()); err != nil && !errors.Is(err, ErrConflict) {
		return nil, fmt.Errorf("seed form fields: %w", err)
	}
	r.log.Info("seeded default form fields")
	defs, err = r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	return defs, nil
}

func nextOrder(defs []Definition) int {
	highest := 0
	for _, d := range defs {
		if d.Order > highest {
			highest = d.Order
		}
	}
	return highest + 1
}
