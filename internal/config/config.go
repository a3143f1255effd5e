// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dharmasatrya/tripplanner/internal/budget"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

const DefaultPath = "config.yaml"

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Planner   Planner   `yaml:"planner"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Budget    Budget    `yaml:"budget"`
	Redis     Redis     `yaml:"redis"`
	Postgres  Postgres  `yaml:"postgres"`
	Kafka     Kafka     `yaml:"kafka"`
}

type HTTP struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Planner struct {
	CatalogTimeout    time.Duration   `yaml:"catalog_timeout" env:"PLANNER_CATALOG_TIMEOUT" env-default:"2s"`
	MaxRetries        int             `yaml:"max_retries" env:"PLANNER_MAX_RETRIES" env-default:"2"`
	RetryDelays       []time.Duration `yaml:"retry_delays" env:"PLANNER_RETRY_DELAYS" env-default:"100ms,200ms,400ms"`
	DefaultOrigin     string          `yaml:"default_origin" env:"PLANNER_DEFAULT_ORIGIN" env-default:"New York"`
	ReferenceAttempts int             `yaml:"reference_attempts" env:"PLANNER_REFERENCE_ATTEMPTS" env-default:"8"`
}

type RateLimit struct {
	Default    ratelimit.RateLimitConfig            `yaml:"default"`
	Categories map[string]ratelimit.RateLimitConfig `yaml:"categories"`
}

// Budget overrides the allocation shares per travel style. Styles missing
// here keep the built-in shares.
type Budget struct {
	Policies map[string]budget.Shares `yaml:"policies"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

type Postgres struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// Enabled reports whether itineraries are persisted in Postgres rather than
// in memory.
func (p Postgres) Enabled() bool {
	return p.URL != ""
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"itinerary-events"`
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads the file named by CONFIG_PATH (config.yaml by default). When
// the file does not exist only the environment is read.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if c.Planner.CatalogTimeout <= 0 {
		problems = append(problems, "planner.catalog_timeout must be positive")
	}
	if c.Planner.MaxRetries < 0 {
		problems = append(problems, "planner.max_retries must not be negative")
	}
	if c.Planner.ReferenceAttempts < 1 {
		problems = append(problems, "planner.reference_attempts must be at least 1")
	}
	for style := range c.Budget.Policies {
		if !models.TravelStyle(style).Valid() {
			problems = append(problems, fmt.Sprintf("budget.policies: unknown travel style %q", style))
		}
	}
	if err := c.RateLimit.Default.Validate(); err != nil {
		problems = append(problems, "rate_limit.default: "+err.Error())
	}
	for _, category := range sortedKeys(c.RateLimit.Categories) {
		if _, ok := models.ParseCategory(category); !ok {
			problems = append(problems, fmt.Sprintf("rate_limit.categories: unknown category %q", category))
			continue
		}
		if err := c.RateLimit.Categories[category].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("rate_limit.categories.%s: %s", category, err))
		}
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		problems = append(problems, "kafka.topic is required when brokers are set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
