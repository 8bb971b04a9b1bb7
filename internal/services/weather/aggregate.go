package weather

import (
	"math"
	"sort"
	"time"

	"weather-widget/internal/models"
)

// MaxForecastDays caps the number of daily entries returned.
const MaxForecastDays = 7

const dateLayout = "2006-01-02"

type bucket struct {
	day        time.Time
	temps      []float64
	conditions []models.Condition
	winds      []float64
	pops       []float64
}

// LocalTime shifts an epoch timestamp by offset seconds. The result is in UTC
// so that its calendar fields are the city-local ones.
func LocalTime(epoch int64, offset int) time.Time {
	return time.Unix(epoch+int64(offset), 0).UTC()
}

// LocalDate is the city-local calendar date of an instant.
func LocalDate(epoch int64, offset int) string {
	return LocalTime(epoch, offset).Format(dateLayout)
}

// Aggregate folds fixed-interval samples into city-local daily summaries,
// starting at the local day of now, ascending, at most MaxForecastDays.
// It is pure and never returns nil.
func Aggregate(samples []models.WeatherSample, offset int, now time.Time, loc Locale) []models.DailyForecastEntry {
	buckets := make(map[string]*bucket)

	for _, s := range samples {
		t := LocalTime(s.Timestamp, offset)
		key := t.Format(dateLayout)

		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
			buckets[key] = b
		}

		b.temps = append(b.temps, s.Temp, s.TempMin, s.TempMax)
		b.conditions = append(b.conditions, s.Condition)
		b.winds = append(b.winds, s.WindSpeed)
		b.pops = append(b.pops, s.PrecipProb)
	}

	today := LocalDate(now.Unix(), offset)

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		// ISO dates compare correctly as strings
		if k >= today {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > MaxForecastDays {
		keys = keys[:MaxForecastDays]
	}

	out := make([]models.DailyForecastEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarize(k, buckets[k], loc))
	}
	return out
}

func summarize(key string, b *bucket, loc Locale) models.DailyForecastEntry {
	lo, hi := b.temps[0], b.temps[0]
	for _, v := range b.temps[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var windSum float64
	for _, w := range b.winds {
		windSum += w
	}

	maxPop := b.pops[0]
	for _, p := range b.pops[1:] {
		maxPop = math.Max(maxPop, p)
	}

	rep := b.conditions[len(b.conditions)/2]

	return models.DailyForecastEntry{
		LocalDate:   key,
		Day:         loc.ShortWeekday(b.day),
		Date:        loc.NumericDate(b.day),
		Max:         roundHalfUp(hi),
		Min:         roundHalfUp(lo),
		Description: rep.Description,
		Icon:        rep.Icon,
		WindSpeed:   round1(windSum / float64(len(b.winds))),
		RainProb:    clampPercent(roundHalfUp(maxPop * 100)),
	}
}

// BuildCurrentConditions shapes the provider's current-weather response.
// Only rain_prob comes from the aggregated forecast.
func BuildCurrentConditions(
	raw models.CurrentWeatherRaw,
	cityName string,
	forecast []models.DailyForecastEntry,
	now time.Time,
	loc Locale,
) models.CurrentConditions {
	offset := raw.TimezoneOffset

	rainProb := 0
	if len(forecast) > 0 {
		rainProb = forecast[0].RainProb
	}
	if forecast == nil {
		forecast = []models.DailyForecastEntry{}
	}
	if cityName == "" {
		cityName = raw.Name
	}

	return models.CurrentConditions{
		City:           cityName,
		CityID:         raw.CityID,
		Temp:           roundHalfUp(raw.Temp),
		Main:           raw.Condition.Main,
		Condition:      raw.Condition.Main,
		Description:    raw.Condition.Description,
		Date:           loc.LongDate(LocalTime(now.Unix(), offset)),
		Icon:           raw.Condition.Icon,
		WindSpeed:      raw.WindSpeed,
		Sunrise:        LocalTime(raw.Sunrise, offset).Format("15:04"),
		Sunset:         LocalTime(raw.Sunset, offset).Format("15:04"),
		RainProb:       rainProb,
		TimezoneOffset: offset,
		Forecast:       forecast,
	}
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}
