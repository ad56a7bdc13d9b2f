package weather

import (
	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/geo"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// WeatherCondition is one condition object from the provider payload.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current is the normalized current-conditions payload.
type Current struct {
	Name           string         `json:"name"`
	Country        string         `json:"country"`
	Coord          geo.Coordinate `json:"coord"`
	TimezoneOffset int            `json:"timezone"` // seconds east of UTC
	Timestamp      int64          `json:"dt"`
	Sunrise        int64          `json:"sunrise"`
	Sunset         int64          `json:"sunset"`

	Temperature float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"windSpeed"`
	WindDeg     float64 `json:"windDeg"`
	WindGust    float64 `json:"windGust,omitempty"`
	Clouds      int     `json:"clouds"`
	Visibility  int     `json:"visibility"`

	Conditions []WeatherCondition `json:"weather"`
}

// Code returns the id of the primary condition, or 0 when there is none.
func (c Current) Code() int {
	if len(c.Conditions) == 0 {
		return 0
	}
	return c.Conditions[0].ID
}

// Description returns the primary condition's description.
func (c Current) Description() string {
	if len(c.Conditions) == 0 {
		return ""
	}
	return c.Conditions[0].Description
}

// CityView is everything the city page displays for one lookup.
type CityView struct {
	Current       Current                   `json:"current"`
	Condition     Condition                 `json:"condition"`
	Summary       string                    `json:"summary"`
	Icon          string                    `json:"icon"`
	IsDaytime     bool                      `json:"isDaytime"`
	WindDirection string                    `json:"windDirection"`
	LocalTime     string                    `json:"localTime"`
	LocalDate     string                    `json:"localDate"`
	Hourly        forecast.HourlySlice      `json:"hourly"`
	Daily         []forecast.DailyAggregate `json:"daily"`

	// ForecastError is set when the forecast could not be fetched and the
	// hourly and daily lists were left empty.
	ForecastError string `json:"forecastError,omitempty"`
}

// Selection is the result of picking a point on the map. Coordinate stays
// usable for a weather-by-coordinate lookup even when naming failed.
type Selection struct {
	Coordinate   geo.Coordinate           `json:"coordinate"`
	Approximate  geo.ObfuscatedCoordinate `json:"approximate"`
	DisplayName  string                   `json:"displayName,omitempty"`
	Named        bool                     `json:"named"`
	ResolveError string                   `json:"resolveError,omitempty"`
}
