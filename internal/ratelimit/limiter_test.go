package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

func TestCatalogLimiter_LazyDefaults(t *testing.T) {
	l := ratelimit.NewCatalogLimiterWithDefaults()

	first := l.GetLimiter(models.CategoryDining)
	second := l.GetLimiter(models.CategoryDining)

	assert.Same(t, first, second)
	assert.Equal(t, rate.Limit(10), first.Limit())
	assert.Equal(t, 20, first.Burst())
}

func TestCatalogLimiter_SetCategoryLimit(t *testing.T) {
	l := ratelimit.NewCatalogLimiterWithDefaults()
	l.SetCategoryLimit(models.CategoryAccommodation, ratelimit.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	assert.Equal(t, 1, l.GetLimiter(models.CategoryAccommodation).Burst())
	assert.Equal(t, 20, l.GetLimiter(models.CategoryActivities).Burst())
}

func TestCatalogLimiter_WaitHonoursContext(t *testing.T) {
	l := ratelimit.NewCatalogLimiter(ratelimit.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, l.Wait(ctx, models.CategoryOutboundFlight))
	assert.Error(t, l.Wait(ctx, models.CategoryOutboundFlight))
}

func TestNewCatalogLimiterFromConfig(t *testing.T) {
	l, err := ratelimit.NewCatalogLimiterFromConfig(
		ratelimit.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 20},
		map[string]ratelimit.RateLimitConfig{
			"dining": {RequestsPerSecond: 2, BurstSize: 3},
		},
	)

	require.NoError(t, err)
	assert.Equal(t, rate.Limit(2), l.GetLimiter(models.CategoryDining).Limit())
	assert.Equal(t, 3, l.GetLimiter(models.CategoryDining).Burst())
	assert.Equal(t, rate.Limit(10), l.GetLimiter(models.CategoryActivities).Limit())
}

func TestNewCatalogLimiterFromConfig_Rejects(t *testing.T) {
	valid := ratelimit.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}

	tests := []struct {
		name       string
		defaults   ratelimit.RateLimitConfig
		categories map[string]ratelimit.RateLimitConfig
		want       string
	}{
		{"unknown category", valid, map[string]ratelimit.RateLimitConfig{"cruises": valid}, `unknown category "cruises"`},
		{"category without rate", valid, map[string]ratelimit.RateLimitConfig{"dining": {BurstSize: 3}}, "dining: requests_per_second must be positive"},
		{"zero burst", valid, map[string]ratelimit.RateLimitConfig{"dining": {RequestsPerSecond: 1}}, "burst must be at least 1"},
		{"zero default", ratelimit.RateLimitConfig{}, nil, "default: requests_per_second must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ratelimit.NewCatalogLimiterFromConfig(tt.defaults, tt.categories)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
