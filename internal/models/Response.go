package models

import "time"

// WidgetData is the payload the widget endpoint returns.
type WidgetData struct {
	City        string             `json:"city" example:"Ankara"`
	ImageURL    string             `json:"imageUrl" example:"https://weather.example.org/city-images/ankara_1f2e.png"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Weather     *CurrentConditions `json:"weather"`
	Source      string             `json:"source" example:"permanent"`
}
