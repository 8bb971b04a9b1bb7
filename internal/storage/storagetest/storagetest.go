// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/internal/models"
	"weather-widget/internal/storage"
)

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Run("city image find missing", func(t *testing.T) { cityImageMissing(t, open(t)) })
	t.Run("city image create then find", func(t *testing.T) { cityImageCreateFind(t, open(t)) })
	t.Run("city image conflict keeps first", func(t *testing.T) { cityImageConflict(t, open(t)) })
	t.Run("city image concurrent create", func(t *testing.T) { cityImageConcurrent(t, open(t)) })
	t.Run("users", func(t *testing.T) { users(t, open(t)) })
	t.Run("blacklist", func(t *testing.T) { blacklist(t, open(t)) })
}

// NewImage builds a record with generation-time weather.
func NewImage(city, url string) *models.CityImage {
	return &models.CityImage{
		ID:       uuid.NewString(),
		City:     city,
		ImageURL: url,
		WeatherData: &models.CurrentConditions{
			City:      city,
			Temp:      7,
			Condition: "Clouds",
			Forecast:  []models.DailyForecastEntry{{LocalDate: "2025-01-02", Max: 9, Min: -1}},
		},
		CreatedAt: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func cityImageMissing(t *testing.T, s storage.Store) {
	_, err := s.FindByCity(context.Background(), "Ankara")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func cityImageCreateFind(t *testing.T, s storage.Store) {
	ctx := context.Background()
	rec := NewImage("Ankara", "http://localhost:8080/city-images/ankara.png")

	created, err := s.CreateUnique(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, created.ID)

	got, err := s.FindByCity(ctx, "Ankara")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.ImageURL, got.ImageURL)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.WeatherData)
	assert.Equal(t, 7, got.WeatherData.Temp)
	assert.Len(t, got.WeatherData.Forecast, 1)

	// keys are exact strings
	_, err = s.FindByCity(ctx, "ankara")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func cityImageConflict(t *testing.T, s storage.Store) {
	ctx := context.Background()
	first := NewImage("İzmir", "first")
	second := NewImage("İzmir", "second")

	_, err := s.CreateUnique(ctx, first)
	require.NoError(t, err)
	_, err = s.CreateUnique(ctx, second)
	assert.ErrorIs(t, err, models.ErrConflict)

	got, err := s.FindByCity(ctx, "İzmir")
	require.NoError(t, err)
	assert.Equal(t, "first", got.ImageURL)
}

func cityImageConcurrent(t *testing.T, s storage.Store) {
	ctx := context.Background()
	const n = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		lost    int
		failure error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateUnique(ctx, NewImage("Oslo", fmt.Sprintf("url-%d", i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, models.ErrConflict):
				lost++
			default:
				failure = err
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, failure)
	assert.Equal(t, 1, won)
	assert.Equal(t, n-1, lost)
}

func users(t *testing.T, s storage.Store) {
	ctx := context.Background()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     "ayse",
		Email:        "ayse@example.org",
		PasswordHash: "$2a$10$hash",
		City:         "Ankara",
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateUser(ctx, u))

	dupEmail := *u
	dupEmail.ID = uuid.NewString()
	dupEmail.Username = "other"
	assert.ErrorIs(t, s.CreateUser(ctx, &dupEmail), models.ErrConflict)

	dupName := *u
	dupName.ID = uuid.NewString()
	dupName.Email = "other@example.org"
	assert.ErrorIs(t, s.CreateUser(ctx, &dupName), models.ErrConflict)

	byEmail, err := s.GetUserByEmail(ctx, "ayse@example.org")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)

	_, err = s.GetUserByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := s.UpdateUserCity(ctx, u.ID, "İzmir")
	require.NoError(t, err)
	assert.Equal(t, "İzmir", updated.City)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "İzmir", byID.City)
	assert.Equal(t, u.PasswordHash, byID.PasswordHash)

	_, err = s.UpdateUserCity(ctx, "missing", "Oslo")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func blacklist(t *testing.T, s storage.Store) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Revoke(ctx, models.RevokedToken{Token: "old", UserID: "u1", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.Revoke(ctx, models.RevokedToken{Token: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour)}))
	// revoking twice is harmless
	require.NoError(t, s.Revoke(ctx, models.RevokedToken{Token: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour)}))

	revoked, err := s.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "never")
	require.NoError(t, err)
	assert.False(t, revoked)

	n, err := s.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	revoked, err = s.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
	revoked, err = s.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
