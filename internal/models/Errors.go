package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProvider covers weather and geocoding collaborator failures.
	ErrProvider = errors.New("weather provider error")
	// ErrCityNotFound is a provider error for an unknown city.
	ErrCityNotFound = fmt.Errorf("%w: city not found", ErrProvider)
	// ErrGeneration covers image-generation failures and empty responses.
	ErrGeneration = errors.New("image generation failed")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("already exists")
	// ErrStore wraps persistence failures.
	ErrStore = errors.New("store error")
	// ErrNotFound is returned by stores for absent records.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not authorized")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
