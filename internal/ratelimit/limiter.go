package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// CatalogLimiter throttles calls per catalog category. Limiters are created
// lazily with the default settings.
type CatalogLimiter struct {
	limiters map[models.Category]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS" env-default:"10"`
	BurstSize         int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

// Validate rejects settings that would stall a catalog once its burst is spent.
func (c RateLimitConfig) Validate() error {
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.BurstSize < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.BurstSize)
	}
	return nil
}

// NewCatalogLimiterFromConfig builds a limiter with per-category overrides
// keyed by category name, as they appear in configuration files.
func NewCatalogLimiterFromConfig(defaults RateLimitConfig, categories map[string]RateLimitConfig) (*CatalogLimiter, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("ratelimit: default: %w", err)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	limiter := NewCatalogLimiter(defaults)
	for _, name := range names {
		category, ok := models.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("ratelimit: unknown category %q", name)
		}
		cfg := categories[name]
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("ratelimit: %s: %w", name, err)
		}
		limiter.SetCategoryLimit(category, cfg)
	}
	return limiter, nil
}

func NewCatalogLimiter(config RateLimitConfig) *CatalogLimiter {
	return &CatalogLimiter{
		limiters: make(map[models.Category]*rate.Limiter),
		defaults: config,
	}
}

func NewCatalogLimiterWithDefaults() *CatalogLimiter {
	return NewCatalogLimiter(DefaultConfig())
}

func (p *CatalogLimiter) GetLimiter(category models.Category) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[category]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[category]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.BurstSize)
	p.limiters[category] = limiter
	return limiter
}

func (p *CatalogLimiter) SetCategoryLimit(category models.Category, cfg RateLimitConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[category] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
}

func (p *CatalogLimiter) Wait(ctx context.Context, category models.Category) error {
	return p.GetLimiter(category).Wait(ctx)
}
