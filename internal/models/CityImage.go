package models

import "time"

// CityImage is the permanent generated illustration for a city key.
// There is at most one per City, and it is never updated.
type CityImage struct {
	ID          string             `json:"id"`
	City        string             `json:"city"`
	ImageURL    string             `json:"image_url"`
	WeatherData *CurrentConditions `json:"weather_data,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// GeneratedImage is what the image-generation collaborator returns: either
// raw bytes or a hosted URL.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
	URL      string
}
