package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultTaxRate  = "10"
	settingCacheTTL = 5 * time.Minute
	settingCacheKey = "settings:"
)

// defaultCategories seeds the category list when the setting row is absent.
var defaultCategories = []string{"Beverages", "Food", "Desserts", "Snacks"}

type SettingService interface {
	GetAll(ctx context.Context) ([]dto.SettingResponse, error)
	Get(ctx context.Context, key string) (string, error)
	Update(ctx context.Context, key string, req dto.UpdateSettingRequest) (*dto.SettingResponse, error)
	GetTaxRate(ctx context.Context) decimal.Decimal
	GetProductCategories(ctx context.Context) []string
}

type settingService struct {
	repo repository.SettingRepository
	rdb  *redis.Client // nil disables caching
}

func NewSettingService(repo repository.SettingRepository, rdb *redis.Client) SettingService {
	return &settingService{repo: repo, rdb: rdb}
}

func (s *settingService) GetAll(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(settings))
	for _, row := range settings {
		out = append(out, settingToResponse(&row))
	}
	return out, nil
}

// Get returns the raw string value for key. Recognized keys fall back to
// their documented defaults when absent instead of failing.
func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if fallback, ok := settingDefault(key); ok {
				return fallback, nil
			}
			return "", apperr.NotFoundf("setting %s not found", key)
		}
		return "", err
	}

	s.cacheSet(ctx, key, row.SettingValue)
	return row.SettingValue, nil
}

// Update validates the two structured keys and passes everything else
// through as an opaque string.
func (s *settingService) Update(ctx context.Context, key string, req dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	if key == "" {
		return nil, apperr.Validationf("setting key is required")
	}
	if err := validateSettingValue(key, req.Value); err != nil {
		return nil, err
	}

	row := &model.Setting{
		SettingKey:   key,
		SettingValue: req.Value,
		Description:  req.Description,
		UpdatedAt:    time.Now(),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx, key)
	resp := settingToResponse(row)
	return &resp, nil
}

// GetTaxRate never fails: unparseable or absent values fall back to the
// default rate.
func (s *settingService) GetTaxRate(ctx context.Context) decimal.Decimal {
	value, err := s.Get(ctx, model.SettingTaxRate)
	if err != nil {
		value = defaultTaxRate
	}
	rate, err := decimal.NewFromString(value)
	if err != nil {
		rate, _ = decimal.NewFromString(defaultTaxRate)
	}
	return rate
}

func (s *settingService) GetProductCategories(ctx context.Context) []string {
	value, err := s.Get(ctx, model.SettingProductCategories)
	if err != nil {
		return defaultCategories
	}
	var categories []string
	if err := json.Unmarshal([]byte(value), &categories); err != nil || len(categories) == 0 {
		return defaultCategories
	}
	return categories
}

func validateSettingValue(key, value string) error {
	switch key {
	case model.SettingTaxRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return apperr.Validationf("tax_rate must be a number")
		}
		if rate < 0 || rate > 100 {
			return apperr.Validationf("tax_rate must be between 0 and 100")
		}
	case model.SettingProductCategories:
		var categories []string
		if err := json.Unmarshal([]byte(value), &categories); err != nil {
			return apperr.Validationf("product_categories must be a JSON array of strings")
		}
		if len(categories) == 0 {
			return apperr.Validationf("product_categories cannot be empty")
		}
	}
	return nil
}

func settingDefault(key string) (string, bool) {
	switch key {
	case model.SettingTaxRate:
		return defaultTaxRate, true
	case model.SettingProductCategories:
		encoded, _ := json.Marshal(defaultCategories)
		return string(encoded), true
	}
	return "", false
}

// ── Redis cache helpers — pass-through when no client is configured ─────────

func (s *settingService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	value, err := s.rdb.Get(ctx, settingCacheKey+key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *settingService) cacheSet(ctx context.Context, key, value string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, settingCacheKey+key, value, settingCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("setting cache write failed")
	}
}

func (s *settingService) cacheInvalidate(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, settingCacheKey+key).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("setting cache invalidation failed")
	}
}

func settingToResponse(row *model.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:         row.SettingKey,
		Value:       row.SettingValue,
		Description: row.Description,
		UpdatedAt:   row.UpdatedAt.Format(time.RFC3339),
	}
}
