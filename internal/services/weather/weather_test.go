package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

type mockRepository struct {
	mu sync.Mutex

	geo         []models.GeoLocation
	geoErr      error
	current     models.CurrentWeatherRaw
	currentErr  error
	samples     []models.WeatherSample
	forecastErr error

	geocodeCalls []string
	limits       []int
}

func (m *mockRepository) Name() string { return "mock" }

func (m *mockRepository) Geocode(_ context.Context, query string, limit int) ([]models.GeoLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geocodeCalls = append(m.geocodeCalls, query)
	m.limits = append(m.limits, limit)
	return m.geo, m.geoErr
}

func (m *mockRepository) FetchCurrent(_ context.Context, _, _ float64) (models.CurrentWeatherRaw, error) {
	return m.current, m.currentErr
}

func (m *mockRepository) FetchForecast(_ context.Context, _, _ float64) ([]models.WeatherSample, error) {
	return m.samples, m.forecastErr
}

func newAnkaraRepo() *mockRepository {
	start := time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)
	samples := make([]models.WeatherSample, 0, 14)
	for i := 0; i < 14; i++ {
		samples = append(samples, models.WeatherSample{
			Timestamp:  start.Add(time.Duration(i) * 3 * time.Hour).Unix(),
			Temp:       5,
			TempMin:    4,
			TempMax:    6,
			Condition:  models.Condition{Main: "Clouds", Description: "bulutlu", Icon: "03d"},
			WindSpeed:  3,
			PrecipProb: 0.3,
		})
	}
	return &mockRepository{
		geo: []models.GeoLocation{{Name: "Ankara", Lat: 39.92, Lon: 32.85, Country: "TR"}},
		current: models.CurrentWeatherRaw{
			CityID:         323786,
			Name:           "Ankara Province",
			Temp:           5.4,
			Condition:      models.Condition{Main: "Clouds", Description: "bulutlu", Icon: "03d"},
			WindSpeed:      3.1,
			TimezoneOffset: 10800,
		},
		samples: samples,
	}
}

func TestWeatherService_GetWeather(t *testing.T) {
	repo := newAnkaraRepo()
	now := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	svc := NewWeatherService(repo, "tr", logger.NewNop()).WithClock(func() time.Time { return now })

	got, err := svc.GetWeather(context.Background(), "  Ankara ")

	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara"}, repo.geocodeCalls)
	assert.Equal(t, []int{1}, repo.limits)
	assert.Equal(t, "Ankara", got.City)
	assert.Equal(t, 5, got.Temp)
	assert.Equal(t, 10800, got.TimezoneOffset)
	require.Len(t, got.Forecast, 2)
	assert.Equal(t, "2025-01-01", got.Forecast[0].LocalDate)
	assert.Equal(t, 30, got.RainProb)
	assert.Equal(t, "1 Ocak 2025", got.Date)
}

func TestWeatherService_GetWeather_EmptyCity(t *testing.T) {
	repo := newAnkaraRepo()
	svc := NewWeatherService(repo, "tr", logger.NewNop())

	_, err := svc.GetWeather(context.Background(), "   ")

	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, repo.geocodeCalls)
}

func TestWeatherService_GetWeather_CityNotFound(t *testing.T) {
	repo := newAnkaraRepo()
	repo.geo = nil
	svc := NewWeatherService(repo, "tr", logger.NewNop())

	_, err := svc.GetWeather(context.Background(), "Atlantis")

	assert.ErrorIs(t, err, models.ErrCityNotFound)
	assert.ErrorIs(t, err, models.ErrProvider)
}

func TestWeatherService_GetWeather_ProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*mockRepository)
	}{
		{"geocode", func(m *mockRepository) { m.geoErr = models.ErrProvider }},
		{"current", func(m *mockRepository) { m.currentErr = models.ErrProvider }},
		{"forecast", func(m *mockRepository) { m.forecastErr = models.ErrProvider }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newAnkaraRepo()
			tt.mut(repo)
			svc := NewWeatherService(repo, "tr", logger.NewNop())

			got, err := svc.GetWeather(context.Background(), "Ankara")

			assert.Nil(t, got)
			assert.True(t, errors.Is(err, models.ErrProvider))
		})
	}
}

func TestWeatherService_SearchCity(t *testing.T) {
	repo := newAnkaraRepo()
	svc := NewWeatherService(repo, "tr", logger.NewNop())

	got, err := svc.SearchCity(context.Background(), "An")

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []int{5}, repo.limits)
}

func TestWeatherService_SearchCity_ShortQuery(t *testing.T) {
	repo := newAnkaraRepo()
	svc := NewWeatherService(repo, "tr", logger.NewNop())

	for _, q := range []string{"", " ", "A", " İ "} {
		got, err := svc.SearchCity(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Empty(t, repo.geocodeCalls)
}

func TestWeatherService_SearchCity_NoMatches(t *testing.T) {
	repo := newAnkaraRepo()
	repo.geo = nil
	svc := NewWeatherService(repo, "tr", logger.NewNop())

	got, err := svc.SearchCity(context.Background(), "Zzzz")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
