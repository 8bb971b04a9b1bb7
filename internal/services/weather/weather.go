package weather

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"weather-widget/internal/models"
	"weather-widget/internal/repositories"
	"weather-widget/pkg/logger"
)

const (
	searchLimit    = 5
	minSearchRunes = 2
)

// WeatherService resolves a city and shapes the provider's responses.
type WeatherService struct {
	repo   repositories.WeatherRepository
	locale Locale
	now    func() time.Time
	l      *logger.Logger
}

func NewWeatherService(repo repositories.WeatherRepository, locale string, l *logger.Logger) *WeatherService {
	return &WeatherService{
		repo:   repo,
		locale: LocaleFor(locale),
		now:    time.Now,
		l:      l,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *WeatherService) WithClock(now func() time.Time) *WeatherService {
	s.now = now
	return s
}

// GetWeather geocodes the city, then fetches current weather and the
// forecast concurrently and shapes them.
func (s *WeatherService) GetWeather(ctx context.Context, city string) (*models.CurrentConditions, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.Wrap(models.ErrInvalidInput, "city is required")
	}

	s.l.Debug("geocoding city", map[string]any{"city": city, "repo": s.repo.Name()})

	matches, err := s.repo.Geocode(ctx, city, 1)
	if err != nil {
		return nil, errors.Wrapf(err, "geocode %q", city)
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(models.ErrCityNotFound, "geocode %q", city)
	}
	geo := matches[0]

	var (
		current models.CurrentWeatherRaw
		samples []models.WeatherSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.repo.FetchCurrent(gctx, geo.Lat, geo.Lon)
		return errors.Wrap(err, "fetch current weather")
	})
	g.Go(func() error {
		var err error
		samples, err = s.repo.FetchForecast(gctx, geo.Lat, geo.Lon)
		return errors.Wrap(err, "fetch forecast")
	})
	if err := g.Wait(); err != nil {
		s.l.Warning("weather fetch failed", map[string]any{"city": city, "err": err})
		return nil, err
	}

	now := s.now()
	forecast := Aggregate(samples, current.TimezoneOffset, now, s.locale)
	conditions := BuildCurrentConditions(current, geo.Name, forecast, now, s.locale)

	s.l.Info("weather shaped", map[string]any{
		"city":     conditions.City,
		"samples":  len(samples),
		"days":     len(forecast),
		"timezone": current.TimezoneOffset,
	})

	return &conditions, nil
}

// SearchCity returns up to five geocoding matches. Queries shorter than two
// characters yield an empty list without calling the provider.
func (s *WeatherService) SearchCity(ctx context.Context, query string) ([]models.GeoLocation, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchRunes {
		return []models.GeoLocation{}, nil
	}

	matches, err := s.repo.Geocode(ctx, query, searchLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}
	if matches == nil {
		matches = []models.GeoLocation{}
	}
	return matches, nil
}
