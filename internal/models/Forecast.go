package models

// DailyForecastEntry is one city-local day of aggregated forecast.
type DailyForecastEntry struct {
	LocalDate   string  `json:"local_date" example:"2025-01-02"`
	Day         string  `json:"day" example:"Per"`
	Date        string  `json:"date" example:"2.1"`
	Max         int     `json:"max" example:"9"`
	Min         int     `json:"min" example:"-1"`
	Description string  `json:"description" example:"parçalı bulutlu"`
	Icon        string  `json:"icon" example:"03d"`
	WindSpeed   float64 `json:"wind_speed" example:"3.4"`
	RainProb    int     `json:"rain_prob" example:"20"`
}

// CurrentConditions is the shaped weather returned to clients.
type CurrentConditions struct {
	City           string               `json:"city" example:"Ankara"`
	CityID         int64                `json:"city_id" example:"323786"`
	Temp           int                  `json:"temp" example:"7"`
	Main           string               `json:"main" example:"Clouds"`
	Condition      string               `json:"condition" example:"Clouds"`
	Description    string               `json:"description" example:"kapalı"`
	Date           string               `json:"date" example:"2 Ocak 2025"`
	Icon           string               `json:"icon" example:"04d"`
	WindSpeed      float64              `json:"wind_speed" example:"2.1"`
	Sunrise        string               `json:"sunrise" example:"08:21"`
	Sunset         string               `json:"sunset" example:"17:49"`
	RainProb       int                  `json:"rain_prob" example:"20"`
	TimezoneOffset int                  `json:"timezone" example:"10800"`
	Forecast       []DailyForecastEntry `json:"forecast"`
}
