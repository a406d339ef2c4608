package fields

import (
	"context"
	"errors"
	"sync"

	"github.com/zivana-montessori/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists field definitions. List returns them in insertion order;
// ordering by Order is the registry's job.
type Store interface {
	List(ctx context.Context) ([]Definition, error)
	Get(ctx context.Context, name string) (Definition, error)
	// Insert fails with ErrConflict when the name is taken.
	Insert(ctx context.Context, def Definition) (Definition, error)
	// Update replaces every attribute except Name. ErrNotFound if absent.
	Update(ctx context.Context, def Definition) (Definition, error)
	Delete(ctx context.Context, name string) error
	// Seed inserts defs, silently skipping names that already exist.
	Seed(ctx context.Context, defs []Definition) error
}

// GormStore keeps definitions in the form_fields table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]Definition, error) {
	var rows []models.FormFieldModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Definition, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, name string) (Definition, error) {
	row, err := s.find(s.db.WithContext(ctx), name)
	if err != nil {
		return Definition{}, err
	}
	return fromModel(row), nil
}

func (s *GormStore) Insert(ctx context.Context, def Definition) (Definition, error) {
	row := toModel(def)
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return Definition{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Definition{}, ErrConflict
	}
	return fromModel(row), nil
}

func (s *GormStore) Update(ctx context.Context, def Definition) (Definition, error) {
	var out Definition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, def.Name)
		if err != nil {
			return err
		}
		row.Label = def.Label
		row.Placeholder = def.Placeholder
		row.Kind = string(def.Kind)
		row.Required = def.Required
		row.Enabled = def.Enabled
		row.Order = def.Order
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		out = fromModel(row)
		return nil
	})
	return out, err
}

func (s *GormStore) Delete(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).Where("name = ?", name).Delete(&models.FormFieldModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Seed(ctx context.Context, defs []Definition) error {
	if len(defs) == 0 {
		return nil
	}
	rows := make([]models.FormFieldModel, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, toModel(d))
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (s *GormStore) find(db *gorm.DB, name string) (models.FormFieldModel, error) {
	var row models.FormFieldModel
	err := db.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	return row, err
}

func toModel(d Definition) models.FormFieldModel {
	return models.FormFieldModel{
		Name:        d.Name,
		Label:       d.Label,
		Placeholder: d.Placeholder,
		Kind:        string(d.Kind),
		Required:    d.Required,
		Enabled:     d.Enabled,
		Order:       d.Order,
	}
}

func fromModel(row models.FormFieldModel) Definition {
	return Definition{
		Name:        row.Name,
		Label:       row.Label,
		Placeholder: row.Placeholder,
		Kind:        Kind(row.Kind),
		Required:    row.Required,
		Enabled:     row.Enabled,
		Order:       row.Order,
	}
}

// MemoryStore is an in-process Store, used by the CLI preview and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	defs []Definition
}

func NewMemoryStore(defs ...Definition) *MemoryStore {
	s := &MemoryStore{}
	for _, d := range defs {
		_, _ = s.Insert(context.Background(), d)
	}
	return s
}

func (s *MemoryStore) List(context.Context) ([]Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Definition(nil), s.defs...), nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(name); i >= 0 {
		return s.defs[i], nil
	}
	return Definition{}, ErrNotFound
}

func (s *MemoryStore) Insert(_ context.Context, def Definition) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(def.Name) >= 0 {
		return Definition{}, ErrConflict
	}
	s.defs = append(s.defs, def)
	return def, nil
}

func (s *MemoryStore) Update(_ context.Context, def Definition) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(def.Name)
	if i < 0 {
		return Definition{}, ErrNotFound
	}
	s.defs[i] = def
	return def, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(name)
	if i < 0 {
		return ErrNotFound
	}
	s.defs = append(s.defs[:i], s.defs[i+1:]...)
	return nil
}

func (s *MemoryStore) Seed(ctx context.Context, defs []Definition) error {
	for _, d := range defs {
		if _, err := s.Insert(ctx, d); err != nil && !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) index(name string) int {
	for i, d := range s.defs {
		if d.Name == name {
			return i
		}
	}
	return -1
}
