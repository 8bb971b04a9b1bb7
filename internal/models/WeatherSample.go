package models

// Condition is a provider weather condition entry.
type Condition struct {
	ID          int    `json:"id" example:"800"`
	Main        string `json:"main" example:"Clear"`
	Description string `json:"description" example:"açık"`
	Icon        string `json:"icon" example:"01d"`
}

// WeatherSample is one fixed-interval forecast point as supplied by the provider.
type WeatherSample struct {
	Timestamp int64     `json:"dt"`
	Temp      float64   `json:"temp"`
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	Condition Condition `json:"condition"`
	WindSpeed float64   `json:"wind_speed"`
	// PrecipProb is the probability of precipitation in [0, 1].
	PrecipProb float64 `json:"pop"`
}

// CurrentWeatherRaw is the provider's "current weather" response reduced to
// the fields the service uses.
type CurrentWeatherRaw struct {
	CityID    int64     `json:"city_id"`
	Name      string    `json:"name"`
	Temp      float64   `json:"temp"`
	Condition Condition `json:"condition"`
	WindSpeed float64   `json:"wind_speed"`
	Sunrise   int64     `json:"sunrise"`
	Sunset    int64     `json:"sunset"`
	// TimezoneOffset is the location's shift from UTC in seconds.
	TimezoneOffset int `json:"timezone"`
}

// GeoLocation is a geocoding match.
type GeoLocation struct {
	Name       string            `json:"name" example:"Ankara"`
	Lat        float64           `json:"lat" example:"39.9208"`
	Lon        float64           `json:"lon" example:"32.8541"`
	Country    string            `json:"country" example:"TR"`
	State      string            `json:"state,omitempty"`
	LocalNames map[string]string `json:"local_names,omitempty"`
}
