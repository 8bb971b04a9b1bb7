package pgstore

import "context"

func Truncate(ctx context.Context, db *DB) error {
	_, err := db.sql.ExecContext(ctx, "TRUNCATE city_images, users, revoked_tokens")
	return err
}
