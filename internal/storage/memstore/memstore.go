// Package memstore is an in-memory store for development and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"weather-widget/internal/models"
)

type DB struct {
	mu      sync.Mutex
	images  map[string]models.CityImage
	users   map[string]models.User
	revoked map[string]models.RevokedToken
}

func New() *DB {
	return &DB{
		images:  make(map[string]models.CityImage),
		users:   make(map[string]models.User),
		revoked: make(map[string]models.RevokedToken),
	}
}

func (db *DB) Close() error { return nil }

// --- CityImageStore ---

func (db *DB) FindByCity(_ context.Context, city string) (*models.CityImage, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.images[city]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &rec, nil
}

func (db *DB) CreateUnique(_ context.Context, rec *models.CityImage) (*models.CityImage, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.images[rec.City]; ok {
		return nil, models.ErrConflict
	}
	db.images[rec.City] = *rec
	out := *rec
	return &out, nil
}

// --- UserStore ---

func (db *DB) CreateUser(_ context.Context, u *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return models.ErrConflict
		}
	}
	if _, ok := db.users[u.ID]; ok {
		return models.ErrConflict
	}
	db.users[u.ID] = *u
	return nil
}

func (db *DB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (db *DB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (db *DB) UpdateUserCity(_ context.Context, id, city string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.City = city
	db.users[id] = u
	return &u, nil
}

// --- TokenBlacklist ---

func (db *DB) Revoke(_ context.Context, t models.RevokedToken) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.revoked[t.Token] = t
	return nil
}

func (db *DB) IsRevoked(_ context.Context, token string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, ok := db.revoked[token]
	return ok, nil
}

func (db *DB) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int
	for k, t := range db.revoked {
		if !t.ExpiresAt.After(now) {
			delete(db.revoked, k)
			n++
		}
	}
	return n, nil
}
