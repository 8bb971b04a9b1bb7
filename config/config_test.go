package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	// Test with default values (without config file)
	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "weather-widget", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10, config.Server.ReadTimeout)
	assert.Equal(t, 120, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "bolt", config.Storage.Driver)
	assert.Equal(t, 90, config.Image.GenerationTimeout)
	assert.Equal(t, "tr", config.Weather.Locale)
	assert.Equal(t, 720, config.Auth.TokenTTLHours)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_ENV", "staging")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEATHER_API_KEY", "ow-key")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SCHEDULER_WARM_CITIES", "Ankara,İzmir")
	t.Setenv("IMAGE_GENERATION_TIMEOUT", "45")

	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "staging", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "ow-key", config.Weather.APIKey)
	assert.Equal(t, "memory", config.Storage.Driver)
	assert.Equal(t, []string{"Ankara", "İzmir"}, config.Scheduler.WarmCities)
	assert.Equal(t, 45, config.Image.GenerationTimeout)
}

func TestFileConfigProvider_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := []byte(`
app:
  name: from-file
  public_base_url: https://example.org
server:
  port: "7000"
storage:
  driver: memory
`)
	require.NoError(t, os.WriteFile(path, yamlData, 0o600))
	t.Setenv("SERVER_PORT", "7001")

	config, err := NewConfigWithProvider(NewFileConfigProvider(path))
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.App.Name)
	assert.Equal(t, "https://example.org", config.App.PublicBaseURL)
	assert.Equal(t, "7001", config.Server.Port)
	assert.Equal(t, "memory", config.Storage.Driver)
	// untouched sections keep their defaults
	assert.Equal(t, 10, config.Server.ReadTimeout)
}

func TestFileConfigProvider_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := NewConfigWithProvider(NewFileConfigProvider(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestConfigValidation(t *testing.T) {
	provider := NewFileConfigProvider(DefaultConfigPath)

	config := defaultConfig()
	assert.NoError(t, provider.Validate(&config))

	invalid := defaultConfig()
	invalid.App.Name = ""
	err := provider.Validate(&invalid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")

	badDriver := defaultConfig()
	badDriver.Storage.Driver = "mongo"
	err = provider.Validate(&badDriver)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `storage.driver "mongo" is not supported`)

	pg := defaultConfig()
	pg.Storage.Driver = "postgres"
	err = provider.Validate(&pg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "storage.postgres_dsn is required")

	prod := defaultConfig()
	prod.App.Env = "production"
	err = provider.Validate(&prod)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret is required in production")
	assert.Contains(t, err.Error(), "weather.api_key is required in production")
}

func TestConfigHelperMethods(t *testing.T) {
	config := &Config{App: AppConfig{Env: "development"}}

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())
	assert.NotEmpty(t, config.JWTSecret())

	config.Auth.JWTSecret = "s3cret"
	assert.Equal(t, "s3cret", config.JWTSecret())
}

func TestNewConfigWithProvider(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Name = "test-app"
	mockProvider := &MockConfigProvider{config: &cfg}

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "test-app", config.App.Name)

	failing := &MockConfigProvider{err: errors.New("boom")}
	_, err = NewConfigWithProvider(failing)
	assert.Error(t, err)
}

// MockConfigProvider for testing
type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}
