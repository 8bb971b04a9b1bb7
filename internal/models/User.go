package models

import "time"

type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at"`
}

// RevokedToken is a logged-out token kept until it would have expired anyway.
type RevokedToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
