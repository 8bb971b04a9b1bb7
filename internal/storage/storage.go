// Package storage defines the persistence ports and picks a backend from config.
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/internal/storage/boltstore"
	"weather-widget/internal/storage/memstore"
	"weather-widget/internal/storage/pgstore"
)

// CityImageStore holds the permanent per-city image records.
type CityImageStore interface {
	// FindByCity returns models.ErrNotFound when no record exists.
	FindByCity(ctx context.Context, city string) (*models.CityImage, error)
	// CreateUnique inserts rec if its city is absent, else returns
	// models.ErrConflict and leaves the existing record untouched.
	CreateUnique(ctx context.Context, rec *models.CityImage) (*models.CityImage, error)
}

type UserStore interface {
	// CreateUser returns models.ErrConflict on a duplicate username or email.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserCity(ctx context.Context, id, city string) (*models.User, error)
}

type TokenBlacklist interface {
	Revoke(ctx context.Context, t models.RevokedToken) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type Store interface {
	CityImageStore
	UserStore
	TokenBlacklist
	Close() error
}

// Open returns the backend named by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "bolt", "":
		return boltstore.Open(cfg.BoltPath)
	case "postgres":
		return pgstore.Open(cfg.PostgresDSN)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, errors.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
