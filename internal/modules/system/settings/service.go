package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zivana-montessori/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known keys read by the registration form.
const (
	KeyWhatsAppNumber   = "whatsapp_number"
	KeyWhatsAppTemplate = "whatsapp_template"
)

var (
	ErrNotFound     = errors.New("setting not found")
	ErrInvalidInput = errors.New("invalid setting")
)

// Service reads and writes keyed settings. Reads are served from an
// in-memory copy that every write invalidates.
type Service struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]models.SettingModel
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// All returns every setting sorted by key.
func (s *Service) All(ctx context.Context) ([]models.SettingModel, error) {
	cache, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SettingModel, 0, len(cache))
	for _, row := range cache {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Get returns the setting for key or ErrNotFound.
func (s *Service) Get(ctx context.Context, key string) (models.SettingModel, error) {
	cache, err := s.snapshot(ctx)
	if err != nil {
		return models.SettingModel{}, err
	}
	row, ok := cache[key]
	if !ok {
		return models.SettingModel{}, ErrNotFound
	}
	return row, nil
}

// Value returns the value stored under key, or "" when there is none.
func (s *Service) Value(ctx context.Context, key string) (string, error) {
	row, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return row.Value, err
}

// Upsert creates or replaces the setting under key.
func (s *Service) Upsert(ctx context.Context, key, value, description string) (models.SettingModel, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.SettingModel{}, fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	row := models.SettingModel{Key: key, Value: value, Description: strings.TrimSpace(description)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(&row).Error
	s.Invalidate()
	if err != nil {
		return models.SettingModel{}, err
	}
	return s.Get(ctx, key)
}

// Update changes an existing setting. A nil description keeps the old one.
func (s *Service) Update(ctx context.Context, key, value string, description *string) (models.SettingModel, error) {
	updates := map[string]interface{}{"value": value}
	if description != nil {
		updates["description"] = strings.TrimSpace(*description)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.SettingModel
		if err := tx.Where("name = ?", key).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Model(&row).Updates(updates).Error
	})
	s.Invalidate()
	if err != nil {
		return models.SettingModel{}, err
	}
	return s.Get(ctx, key)
}

// Delete removes the setting under key.
func (s *Service) Delete(ctx context.Context, key string) error {
	res := s.db.WithContext(ctx).Where("name = ?", key).Delete(&models.SettingModel{})
	s.Invalidate()
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Invalidate drops the cached copy so the next read goes to the database.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// WhatsAppTemplate returns the saved message template, "" when unset.
func (s *Service) WhatsAppTemplate(ctx context.Context) (string, error) {
	return s.Value(ctx, KeyWhatsAppTemplate)
}

// WhatsAppNumber returns the saved destination number, "" when unset.
func (s *Service) WhatsAppNumber(ctx context.Context) (string, error) {
	return s.Value(ctx, KeyWhatsAppNumber)
}

// SaveWhatsAppTemplate replaces the message template wholesale.
func (s *Service) SaveWhatsAppTemplate(ctx context.Context, template string) error {
	_, err := s.Upsert(ctx, KeyWhatsAppTemplate, template, "Template pesan WhatsApp pendaftaran")
	return err
}

func (s *Service) snapshot(ctx context.Context) (map[string]models.SettingModel, error) {
	s.mu.RLock()
	cache := s.cache
	s.mu.RUnlock()
	if cache != nil {
		return cache, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil {
		return s.cache, nil
	}
	var rows []models.SettingModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	cache = make(map[string]models.SettingModel, len(rows))
	for _, row := range rows {
		cache[row.Key] = row
	}
	s.cache = cache
	return cache, nil
}
