package forecast

import "time"

const (
	// HourlyWindow is the number of 3-hour samples shown as "next hours" (24h).
	HourlyWindow = 8

	// MaxDailyDays caps the multi-day summary after today is dropped.
	MaxDailyDays = 6
)

// Entry is a single 3-hour sample of the 5-day forecast feed.
type Entry struct {
	Timestamp                int64   `json:"dt"` // epoch seconds
	Temperature              float64 `json:"temp"`
	FeelsLike                float64 `json:"feelsLike"`
	TempMin                  float64 `json:"tempMin"`
	TempMax                  float64 `json:"tempMax"`
	Humidity                 float64 `json:"humidity"`
	WindSpeed                float64 `json:"windSpeed"`
	WeatherCode              int     `json:"weatherCode"`
	PrecipitationProbability float64 `json:"pop"`
}

// Time returns the sample timestamp as UTC.
func (e Entry) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// HourlySlice is the verbatim prefix of the feed used for the near-term view.
// Index 0 is the nearest sample, not the current instant.
type HourlySlice []Entry

// DailyAggregate summarizes one calendar day of samples.
//
// Only TempMax and TempMin are aggregated across the day. Every other field
// is copied from the first sample seen for that day.
type DailyAggregate struct {
	DayKey                   string  `json:"dayKey"`
	Timestamp                int64   `json:"dt"`
	TempMax                  float64 `json:"tempMax"`
	TempMin                  float64 `json:"tempMin"`
	WeatherCode              int     `json:"weatherCode"`
	Humidity                 float64 `json:"humidity"`
	WindSpeed                float64 `json:"windSpeed"`
	PrecipitationProbability float64 `json:"pop"`
}
