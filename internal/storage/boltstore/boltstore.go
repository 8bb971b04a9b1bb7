// Package boltstore persists records in a single BoltDB file, one bucket per
// dataset.
package boltstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"weather-widget/internal/models"
)

var (
	bucketCityImages = []byte("city_images")
	bucketUsers      = []byte("users")
	bucketUserEmails = []byte("user_emails")
	bucketUserNames  = []byte("user_names")
	bucketRevoked    = []byte("revoked_tokens")
)

type DB struct {
	db *bolt.DB
}

// Open creates the parent directory and the buckets if needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(models.ErrStore, "create dir for %s: %v", path, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "open %s: %v", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketCityImages, bucketUsers, bucketUserEmails, bucketUserNames, bucketRevoked} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(models.ErrStore, "create buckets: %v", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// --- CityImageStore ---

func (d *DB) FindByCity(_ context.Context, city string) (*models.CityImage, error) {
	var rec models.CityImage
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCityImages).Get([]byte(city))
		if v == nil {
			return models.ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, wrap(err)
	}
	return &rec, nil
}

// CreateUnique checks and inserts inside one write transaction; bolt allows a
// single writer at a time.
func (d *DB) CreateUnique(_ context.Context, rec *models.CityImage) (*models.CityImage, error) {
	enc, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStore, "encode city image: %v", err)
	}

	err = d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCityImages)
		if b.Get([]byte(rec.City)) != nil {
			return models.ErrConflict
		}
		return b.Put([]byte(rec.City), enc)
	})
	if err != nil {
		return nil, wrap(err)
	}
	out := *rec
	return &out, nil
}

// --- UserStore ---

func (d *DB) CreateUser(_ context.Context, u *models.User) error {
	enc, err := json.Marshal(storedUser{User: *u, PasswordHash: u.PasswordHash})
	if err != nil {
		return errors.Wrapf(models.ErrStore, "encode user: %v", err)
	}

	return wrap(d.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		emails := tx.Bucket(bucketUserEmails)
		names := tx.Bucket(bucketUserNames)

		if users.Get([]byte(u.ID)) != nil || emails.Get([]byte(u.Email)) != nil || names.Get([]byte(u.Username)) != nil {
			return models.ErrConflict
		}
		if err := users.Put([]byte(u.ID), enc); err != nil {
			return err
		}
		if err := emails.Put([]byte(u.Email), []byte(u.ID)); err != nil {
			return err
		}
		return names.Put([]byte(u.Username), []byte(u.ID))
	}))
}

func (d *DB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	var u *models.User
	err := d.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUserEmails).Get([]byte(email))
		if id == nil {
			return models.ErrNotFound
		}
		var err error
		u, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (d *DB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	var u *models.User
	err := d.db.View(func(tx *bolt.Tx) error {
		var err error
		u, err = getUser(tx, []byte(id))
		return err
	})
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (d *DB) UpdateUserCity(_ context.Context, id, city string) (*models.User, error) {
	var u *models.User
	err := d.db.Update(func(tx *bolt.Tx) error {
		var err error
		if u, err = getUser(tx, []byte(id)); err != nil {
			return err
		}
		u.City = city
		enc, err := json.Marshal(storedUser{User: *u, PasswordHash: u.PasswordHash})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketUsers).Put([]byte(id), enc)
	})
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

// storedUser keeps the password hash, which models.User hides from JSON.
type storedUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func getUser(tx *bolt.Tx, id []byte) (*models.User, error) {
	v := tx.Bucket(bucketUsers).Get(id)
	if v == nil {
		return nil, models.ErrNotFound
	}
	var su storedUser
	if err := json.Unmarshal(v, &su); err != nil {
		return nil, err
	}
	u := su.User
	u.PasswordHash = su.PasswordHash
	return &u, nil
}

// --- TokenBlacklist ---

func (d *DB) Revoke(_ context.Context, t models.RevokedToken) error {
	enc, err := json.Marshal(t)
	if err != nil {
		return errors.Wrapf(models.ErrStore, "encode revoked token: %v", err)
	}
	return wrap(d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRevoked).Put([]byte(t.Token), enc)
	}))
}

func (d *DB) IsRevoked(_ context.Context, token string) (bool, error) {
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketRevoked).Get([]byte(token)) != nil
		return nil
	})
	return found, wrap(err)
}

func (d *DB) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	var n int
	err := d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRevoked)
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var t models.RevokedToken
			if err := json.Unmarshal(v, &t); err != nil {
				// unreadable entries are dropped with the expired ones
				expired = append(expired, append([]byte(nil), k...))
				return nil
			}
			if !t.ExpiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(expired)
		return nil
	})
	return n, wrap(err)
}

// wrap passes sentinel errors through and tags everything else as a store failure.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) {
		return err
	}
	return errors.Wrapf(models.ErrStore, "bolt: %v", err)
}
