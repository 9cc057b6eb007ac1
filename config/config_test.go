package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tj/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.Nil(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := Load(writeConfig(t, "output:\n  dir: ./out\n"))
	assert.Nil(t, err)

	assert.Equal(t, "secret", cfg.Weather.APIKey)
	assert.Equal(t, 5, cfg.Weather.MaxDays)
	assert.Equal(t, time.Duration(0), cfg.Weather.Timeout)
	assert.Equal(t, "legacy", cfg.Geonames.Parser)
	assert.Equal(t, "./out", cfg.Output.Dir)
	assert.Equal(t, 8045, cfg.API.Port)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "weather-history", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
weather:
  api_key: from-file
  max_days: 3
  timeout: 10s
geonames:
  parser: strict
mqtt:
  enabled: true
  broker: tcp://broker:1883
`)
	t.Setenv("WEATHER_HISTORY_API_PORT", "9090")

	cfg, err := Load(path)
	assert.Nil(t, err)

	assert.Equal(t, "from-file", cfg.Weather.APIKey)
	assert.Equal(t, 3, cfg.Weather.MaxDays)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, "strict", cfg.Geonames.Parser)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, 9090, cfg.API.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown parser", "geonames:\n  parser: fuzzy\n"},
		{"zero max days", "weather:\n  max_days: 0\n"},
		{"port out of range", "api:\n  port: 70000\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.NotNil(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NotNil(t, err)
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load(writeConfig(t, "output:\n  dir: ./out\n"))
	assert.Nil(t, err)
	assert.True(t, errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey))

	cfg.Weather.APIKey = "   "
	assert.True(t, errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey))

	cfg.Weather.APIKey = "secret"
	assert.Nil(t, cfg.RequireAPIKey())
}
