package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

type Config struct {
	App       AppConfig       `yaml:"app" envconfig:"APP"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Sentry    SentryConfig    `yaml:"sentry" envconfig:"SENTRY"`
	Weather   WeatherConfig   `yaml:"weather" envconfig:"WEATHER"`
	Image     ImageConfig     `yaml:"image" envconfig:"IMAGE"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
	// PublicBaseURL replaces loopback and private-network hosts in image URLs.
	PublicBaseURL string `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
}

type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"PORT"`
	ReadTimeout  int    `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" envconfig:"DSN"`
	Debug bool   `yaml:"debug" envconfig:"DEBUG"`
}

type WeatherConfig struct {
	BaseURL    string `yaml:"base_url" envconfig:"BASE_URL"`
	GeoURL     string `yaml:"geo_url" envconfig:"GEO_URL"`
	APIKey     string `yaml:"api_key,omitempty" envconfig:"API_KEY"`
	Lang       string `yaml:"lang" envconfig:"LANG"`
	Locale     string `yaml:"locale" envconfig:"LOCALE"`
	Timeout    int    `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries int    `yaml:"max_retries" envconfig:"MAX_RETRIES"`
}

type ImageConfig struct {
	BaseURL           string `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey            string `yaml:"api_key,omitempty" envconfig:"API_KEY"`
	Model             string `yaml:"model" envconfig:"MODEL"`
	GenerationTimeout int    `yaml:"generation_timeout" envconfig:"GENERATION_TIMEOUT"`
	StorageDir        string `yaml:"storage_dir" envconfig:"STORAGE_DIR"`
	URLPath           string `yaml:"url_path" envconfig:"URL_PATH"`
	// ServeBaseURL is the base the artifact URLs are minted with.
	ServeBaseURL string `yaml:"serve_base_url" envconfig:"SERVE_BASE_URL"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver" envconfig:"DRIVER"`
	BoltPath    string `yaml:"bolt_path" envconfig:"BOLT_PATH"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty" envconfig:"POSTGRES_DSN"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret,omitempty" envconfig:"JWT_SECRET"`
	TokenTTLHours int    `yaml:"token_ttl_hours" envconfig:"TOKEN_TTL_HOURS"`
}

type SchedulerConfig struct {
	Enabled              bool     `yaml:"enabled" envconfig:"ENABLED"`
	PurgeIntervalMinutes int      `yaml:"purge_interval_minutes" envconfig:"PURGE_INTERVAL_MINUTES"`
	WarmIntervalMinutes  int      `yaml:"warm_interval_minutes" envconfig:"WARM_INTERVAL_MINUTES"`
	WarmCities           []string `yaml:"warm_cities" envconfig:"WARM_CITIES"`
}

// ConfigProvider loads and validates configuration.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider reads an optional YAML file and overlays the environment.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "weather-widget",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 120,
			IdleTimeout:  120,
		},
		Log: LogConfig{Level: "info"},
		Weather: WeatherConfig{
			BaseURL:    "https://api.openweathermap.org/data/2.5",
			GeoURL:     "https://api.openweathermap.org/geo/1.0",
			Lang:       "tr",
			Locale:     "tr",
			Timeout:    10,
			MaxRetries: 3,
		},
		Image: ImageConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			Model:             "gemini-3-pro-image-preview",
			GenerationTimeout: 90,
			StorageDir:        "public/city-images",
			URLPath:           "/city-images",
			ServeBaseURL:      "http://localhost:8080",
		},
		Storage: StorageConfig{
			Driver:   "bolt",
			BoltPath: "data/weather-widget.bolt",
		},
		Auth: AuthConfig{TokenTTLHours: 30 * 24},
		Scheduler: SchedulerConfig{
			PurgeIntervalMinutes: 60,
			WarmIntervalMinutes:  360,
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := defaultConfig()

	if err := p.loadFromFile(&cnf); err != nil {
		return nil, err
	}

	// Environment wins over the file.
	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return &cnf, nil
}

func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	var problems []string

	if strings.TrimSpace(config.App.Name) == "" {
		problems = append(problems, "app.name is required")
	}
	if strings.TrimSpace(config.Server.Port) == "" {
		problems = append(problems, "server.port is required")
	}
	if config.Server.ReadTimeout <= 0 || config.Server.WriteTimeout <= 0 || config.Server.IdleTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}
	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is invalid", config.Log.Level))
	}
	if config.Weather.Timeout <= 0 {
		problems = append(problems, "weather.timeout must be positive")
	}
	if config.Image.GenerationTimeout <= 0 {
		problems = append(problems, "image.generation_timeout must be positive")
	}

	switch config.Storage.Driver {
	case "bolt":
		if config.Storage.BoltPath == "" {
			problems = append(problems, "storage.bolt_path is required for the bolt driver")
		}
	case "postgres":
		if config.Storage.PostgresDSN == "" {
			problems = append(problems, "storage.postgres_dsn is required for the postgres driver")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q is not supported", config.Storage.Driver))
	}

	if config.IsProduction() {
		if config.Auth.JWTSecret == "" {
			problems = append(problems, "auth.jwt_secret is required in production")
		}
		if config.Weather.APIKey == "" {
			problems = append(problems, "weather.api_key is required in production")
		}
		if config.Image.APIKey == "" {
			problems = append(problems, "image.api_key is required in production")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// NewConfig loads configuration from DefaultConfigPath and the environment.
func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}
	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// JWTSecret returns the configured signing secret, falling back to a fixed
// development value outside production.
func (c *Config) JWTSecret() string {
	if c.Auth.JWTSecret != "" {
		return c.Auth.JWTSecret
	}
	return "weather-widget-dev-secret"
}
