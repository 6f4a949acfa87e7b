package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `env:"TEST_CFG_PORT" envDefault:"8010"`
	BaseURL  string   `env:"TEST_CFG_BASE_URL" envDefault:"http://localhost:1337"`
	Brokers  []string `env:"TEST_CFG_BROKERS" envDefault:"a:9092,b:9092" envSeparator:","`
	Disabled bool     `env:"TEST_CFG_DISABLED" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, "http://localhost:1337", cfg.BaseURL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
	assert.False(t, cfg.Disabled)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_DISABLED", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Disabled)
}

type prefixedConfig struct {
	Concurrency int `env:"CONCURRENCY" envDefault:"4"`
}

func TestLoad_WithPrefix(t *testing.T) {
	t.Setenv("EXPORT_CONCURRENCY", "8")
	t.Setenv("CONCURRENCY", "2")

	var cfg prefixedConfig
	require.NoError(t, Load(&cfg, "EXPORT_"))

	assert.Equal(t, 8, cfg.Concurrency)
}

type requiredConfig struct {
	Token string `env:"TEST_CFG_TOKEN,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
