package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Cart store backends selectable with CART_STORE.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int `env:"STOREFRONT_HTTP_PORT" envDefault:"8010"`
	PageCacheMaxAge int `env:"PAGE_CACHE_MAX_AGE" envDefault:"60"`

	CMS CMSConfig

	// Cart store
	CartStore string `env:"CART_STORE" envDefault:"memory"`
	CartTTL   int    `env:"CART_TTL_HOURS" envDefault:"168"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// PostgreSQL
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"storefront"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:""`
	DBName     string `env:"STOREFRONT_DB_NAME" envDefault:"storefront"`
	DBSSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Per-IP limit on add-to-cart writes; 0 disables it.
	CartRateLimitRPS   float64 `env:"CART_RATE_LIMIT_RPS" envDefault:"5"`
	CartRateLimitBurst int     `env:"CART_RATE_LIMIT_BURST" envDefault:"10"`
	// Proxies (CIDR or IP) whose X-Forwarded-For is believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Toast shown after a successful add to cart.
	NotificationAutoCloseMS int `env:"NOTIFICATION_AUTOCLOSE_MS" envDefault:"3000"`
}

// CMSConfig describes how to reach the headless CMS. It is shared by the
// server and the export command.
type CMSConfig struct {
	BaseURL        string `env:"CMS_BASE_URL" envDefault:"http://localhost:1337"`
	APIToken       string `env:"CMS_API_TOKEN" envDefault:""`
	TimeoutSeconds int    `env:"CMS_TIMEOUT_SECONDS" envDefault:"10"`
	MaxRetries     int    `env:"CMS_MAX_RETRIES" envDefault:"2"`
	PageSize       int    `env:"CMS_PAGE_SIZE" envDefault:"100"`
}

// Timeout returns the per-request CMS timeout.
func (c CMSConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CartTTLDuration returns how long a Redis cart survives without writes.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.CartStore {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("invalid CART_STORE %q: want memory, redis or postgres", c.CartStore)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid CART_TTL_HOURS: %d", c.CartTTL)
	}
	if c.PageCacheMaxAge < 0 {
		return fmt.Errorf("invalid PAGE_CACHE_MAX_AGE: %d", c.PageCacheMaxAge)
	}
	if c.CartRateLimitRPS < 0 || c.CartRateLimitBurst < 0 {
		return fmt.Errorf("invalid cart rate limit: rps=%v burst=%d", c.CartRateLimitRPS, c.CartRateLimitBurst)
	}
	if c.NotificationAutoCloseMS < 0 {
		return fmt.Errorf("invalid NOTIFICATION_AUTOCLOSE_MS: %d", c.NotificationAutoCloseMS)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v", c.OTELSampleRate)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_ENABLED requires KAFKA_BROKERS")
	}
	return c.CMS.validate()
}

func (c CMSConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid CMS_BASE_URL %q", c.BaseURL)
	}
	if strings.HasSuffix(u.Path, "/api") {
		return fmt.Errorf("CMS_BASE_URL %q must not include the /api suffix", c.BaseURL)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid CMS_TIMEOUT_SECONDS: %d", c.TimeoutSeconds)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid CMS_MAX_RETRIES: %d", c.MaxRetries)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("invalid CMS_PAGE_SIZE: %d (1-100)", c.PageSize)
	}
	return nil
}

// ExportConfig configures the static export command. Variables are read
// with the EXPORT_ prefix, e.g. EXPORT_CONCURRENCY.
type ExportConfig struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	OutDir      string `env:"OUT_DIR" envDefault:"dist"`
	Concurrency int    `env:"CONCURRENCY" envDefault:"4"`
}

// LoadExport reads the CMS settings (unprefixed, shared with the server) and
// the EXPORT_-prefixed export settings.
func LoadExport() (*ExportConfig, CMSConfig, error) {
	var cms CMSConfig
	if err := pkgconfig.Load(&cms); err != nil {
		return nil, cms, fmt.Errorf("load cms config: %w", err)
	}
	if err := cms.validate(); err != nil {
		return nil, cms, err
	}

	cfg := &ExportConfig{}
	if err := pkgconfig.Load(cfg, "EXPORT_"); err != nil {
		return nil, cms, fmt.Errorf("load export config: %w", err)
	}
	if cfg.Concurrency < 1 {
		return nil, cms, fmt.Errorf("invalid EXPORT_CONCURRENCY: %d", cfg.Concurrency)
	}
	return cfg, cms, nil
}
