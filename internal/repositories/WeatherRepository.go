package repositories

import (
	"context"
	"net/http"
	"time"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

// HTTPClient is the subset of *http.Client the repositories use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type WeatherRepository interface {
	Name() string
	Geocode(ctx context.Context, query string, limit int) ([]models.GeoLocation, error)
	FetchCurrent(ctx context.Context, lat, lon float64) (models.CurrentWeatherRaw, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]models.WeatherSample, error)
}

// ImageGenerator turns a prompt into image bytes or a hosted URL.
type ImageGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (models.GeneratedImage, error)
}

// InitWeatherRepository builds the OpenWeather client from config.
func InitWeatherRepository(cfg *config.Config, l *logger.Logger) (WeatherRepository, error) {
	client := &http.Client{Timeout: time.Duration(cfg.Weather.Timeout) * time.Second}
	return NewOpenWeatherRepository(cfg.Weather, l, client)
}

// InitImageGenerator builds the Gemini client from config.
func InitImageGenerator(cfg *config.Config, l *logger.Logger) (ImageGenerator, error) {
	return NewGeminiRepository(cfg.Image, l, nil)
}
