package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	OpenWeatherGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

type OpenWeatherRepository struct {
	baseURL    string
	geoURL     string
	apiKey     string
	lang       string
	httpClient HTTPClient
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
	l          *logger.Logger
}

func NewOpenWeatherRepository(cfg config.WeatherConfig, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		l.Warning("openweather api key is empty, requests will be rejected upstream")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	geoURL := cfg.GeoURL
	if geoURL == "" {
		geoURL = OpenWeatherGeoURL
	}
	lang := cfg.Lang
	if lang == "" {
		lang = "tr"
	}

	return &OpenWeatherRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		geoURL:     strings.TrimRight(geoURL, "/"),
		apiKey:     cfg.APIKey,
		lang:       lang,
		httpClient: httpClient,
		backoff: BackoffConfig{
			MaxRetries:      max(cfg.MaxRetries, 0),
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: newCircuitBreaker("openweather"),
		l:       l,
	}, nil
}

func (o *OpenWeatherRepository) Name() string {
	return "openweather"
}

type geoItem struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

type owCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Weather []owCondition `json:"weather"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// Geocode resolves a free-text city query. An upstream 404 is
// models.ErrCityNotFound; an empty match list is returned as is.
func (o *OpenWeatherRepository) Geocode(ctx context.Context, query string, limit int) ([]models.GeoLocation, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", o.apiKey)

	var items []geoItem
	if err := o.getJSON(ctx, o.geoURL+"/direct", values, &items); err != nil {
		return nil, err
	}

	out := make([]models.GeoLocation, 0, len(items))
	for _, it := range items {
		out = append(out, models.GeoLocation{
			Name:       it.Name,
			Lat:        it.Lat,
			Lon:        it.Lon,
			Country:    it.Country,
			State:      it.State,
			LocalNames: it.LocalNames,
		})
	}
	return out, nil
}

func (o *OpenWeatherRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.CurrentWeatherRaw, error) {
	var payload currentResponse
	if err := o.getJSON(ctx, o.baseURL+"/weather", o.pointValues(lat, lon), &payload); err != nil {
		return models.CurrentWeatherRaw{}, err
	}

	return models.CurrentWeatherRaw{
		CityID:         payload.ID,
		Name:           payload.Name,
		Temp:           payload.Main.Temp,
		Condition:      firstCondition(payload.Weather),
		WindSpeed:      payload.Wind.Speed,
		Sunrise:        payload.Sys.Sunrise,
		Sunset:         payload.Sys.Sunset,
		TimezoneOffset: payload.Timezone,
	}, nil
}

func (o *OpenWeatherRepository) FetchForecast(ctx context.Context, lat, lon float64) ([]models.WeatherSample, error) {
	var payload forecastResponse
	if err := o.getJSON(ctx, o.baseURL+"/forecast", o.pointValues(lat, lon), &payload); err != nil {
		return nil, err
	}

	samples := make([]models.WeatherSample, 0, len(payload.List))
	for _, item := range payload.List {
		samples = append(samples, models.WeatherSample{
			Timestamp:  item.Dt,
			Temp:       item.Main.Temp,
			TempMin:    item.Main.TempMin,
			TempMax:    item.Main.TempMax,
			Condition:  firstCondition(item.Weather),
			WindSpeed:  item.Wind.Speed,
			PrecipProb: item.Pop,
		})
	}

	o.l.Debug("parsed forecast response", map[string]any{"items": len(samples)})

	return samples, nil
}

func (o *OpenWeatherRepository) pointValues(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("units", "metric")
	values.Set("lang", o.lang)
	values.Set("appid", o.apiKey)
	return values
}

func (o *OpenWeatherRepository) getJSON(ctx context.Context, endpoint string, values url.Values, out any) error {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	}

	o.l.Debug("making openweather request", map[string]any{"endpoint": endpoint})

	resp, err := doWithResilience(ctx, o.httpClient, o.backoff, o.circuit, buildRequest)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return errors.Wrap(models.ErrCityNotFound, endpoint)
		}
		return fmt.Errorf("%w: %s: %v", models.ErrProvider, endpoint, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %v", models.ErrProvider, err)
	}
	return nil
}

func firstCondition(items []owCondition) models.Condition {
	if len(items) == 0 {
		return models.Condition{}
	}
	c := items[0]
	return models.Condition{ID: c.ID, Main: c.Main, Description: c.Description, Icon: c.Icon}
}
