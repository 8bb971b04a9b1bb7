// Package widget composes fresh weather and the permanent city image into the
// widget payload.
package widget

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

// SourcePermanent marks images served from the permanent per-city cache.
const SourcePermanent = "permanent"

type WeatherProvider interface {
	GetWeather(ctx context.Context, city string) (*models.CurrentConditions, error)
}

type ImageCache interface {
	GetOrCreate(ctx context.Context, city string, weather *models.CurrentConditions) (*models.CityImage, error)
}

type Assembler struct {
	weather WeatherProvider
	images  ImageCache
	l       *logger.Logger
}

func NewAssembler(weather WeatherProvider, images ImageCache, l *logger.Logger) *Assembler {
	return &Assembler{weather: weather, images: images, l: l}
}

// GetWidgetData fetches weather, then the image, and fails as a whole if
// either step fails.
func (a *Assembler) GetWidgetData(ctx context.Context, user *models.User) (*models.WidgetData, error) {
	if user == nil {
		return nil, errors.Wrap(models.ErrUnauthorized, "user context missing")
	}
	city := strings.TrimSpace(user.City)
	if city == "" {
		return nil, errors.Wrap(models.ErrInvalidInput, "user has no city")
	}

	a.l.Debug("assembling widget data", map[string]any{"user": user.Username, "city": city})

	weather, err := a.weather.GetWeather(ctx, city)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch weather data")
	}

	img, err := a.images.GetOrCreate(ctx, city, weather)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get city image")
	}

	return &models.WidgetData{
		City:        city,
		ImageURL:    img.ImageURL,
		GeneratedAt: img.CreatedAt,
		Weather:     weather,
		Source:      SourcePermanent,
	}, nil
}
