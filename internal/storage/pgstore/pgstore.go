// Package pgstore implements the stores on PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"weather-widget/internal/models"
)

const uniqueViolation = "23505"

type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "open: %v", err)
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrapf(models.ErrStore, "ping: %v", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS city_images (
			id TEXT PRIMARY KEY,
			city TEXT UNIQUE NOT NULL,
			image_url TEXT NOT NULL,
			weather_data JSONB,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS revoked_tokens (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires_at ON revoked_tokens(expires_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", models.ErrStore, err)
		}
	}
	return nil
}

// --- CityImageStore ---

func (d *DB) FindByCity(ctx context.Context, city string) (*models.CityImage, error) {
	var (
		rec     models.CityImage
		weather []byte
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, city, image_url, weather_data, created_at FROM city_images WHERE city = $1",
		city,
	).Scan(&rec.ID, &rec.City, &rec.ImageURL, &weather, &rec.CreatedAt)
	if isNoRows(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "find city image: %v", err)
	}
	if len(weather) > 0 {
		rec.WeatherData = &models.CurrentConditions{}
		if err := json.Unmarshal(weather, rec.WeatherData); err != nil {
			return nil, errors.Wrapf(models.ErrStore, "decode weather_data: %v", err)
		}
	}
	return &rec, nil
}

// CreateUnique relies on the unique city column; a losing insert affects no
// rows and is reported as a conflict.
func (d *DB) CreateUnique(ctx context.Context, rec *models.CityImage) (*models.CityImage, error) {
	var weather any
	if rec.WeatherData != nil {
		enc, err := json.Marshal(rec.WeatherData)
		if err != nil {
			return nil, errors.Wrapf(models.ErrStore, "encode weather_data: %v", err)
		}
		weather = string(enc)
	}

	var id string
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO city_images (id, city, image_url, weather_data, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (city) DO NOTHING
		 RETURNING id`,
		rec.ID, rec.City, rec.ImageURL, weather, rec.CreatedAt,
	).Scan(&id)
	// DO NOTHING returns no row when the city is already taken
	if isNoRows(err) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, classify(err, "create city image")
	}
	out := *rec
	return &out, nil
}

// --- UserStore ---

const userColumns = "id, username, email, password_hash, city, created_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.City, &u.CreatedAt)
	if isNoRows(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "scan user: %v", err)
	}
	return &u, nil
}

func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.City, u.CreatedAt,
	)
	return classify(err, "create user")
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (d *DB) UpdateUserCity(ctx context.Context, id, city string) (*models.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"UPDATE users SET city = $2 WHERE id = $1 RETURNING "+userColumns,
		id, city,
	))
}

// --- TokenBlacklist ---

func (d *DB) Revoke(ctx context.Context, t models.RevokedToken) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO revoked_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO NOTHING`,
		t.Token, t.UserID, t.ExpiresAt,
	)
	return classify(err, "revoke token")
}

func (d *DB) IsRevoked(ctx context.Context, token string) (bool, error) {
	var one int
	err := d.sql.QueryRowContext(ctx, "SELECT 1 FROM revoked_tokens WHERE token = $1", token).Scan(&one)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(models.ErrStore, "check revoked token: %v", err)
	}
	return true, nil
}

func (d *DB) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at <= $1", now)
	if err != nil {
		return 0, errors.Wrapf(models.ErrStore, "purge revoked tokens: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(models.ErrStore, "purge revoked tokens: %v", err)
	}
	return int(n), nil
}

// classify maps unique violations to models.ErrConflict.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ErrConflict
	}
	return errors.Wrapf(models.ErrStore, "%s: %v", op, err)
}
