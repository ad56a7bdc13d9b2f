package weather

import (
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

const (
	localTimeLayout = "03:04 PM"
	localDateLayout = "Monday, January 2, 2006"
)

// Icon picks a glyph for a provider condition id.
func Icon(code int, isDay bool) string {
	switch {
	case code >= 200 && code < 300:
		return "⚡"
	case code >= 300 && code < 400, code >= 500 && code < 600:
		return "🌧️"
	case code >= 600 && code < 700:
		return "❄️"
	case code >= 700 && code < 800:
		return "🌫️"
	case code == 800:
		if isDay {
			return "☀️"
		}
		return "🌙"
	case code == 801:
		if isDay {
			return "🌤️"
		}
		return "☁️"
	case code == 802:
		return "⛅"
	case code > 802:
		return "☁️"
	default:
		return "🌡️"
	}
}

// ConditionFromCode maps a provider condition id to a normalized Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code >= 200 && code < 300:
		return ConditionStorm
	case code >= 300 && code < 600:
		return ConditionRain
	case code >= 600 && code < 700:
		return ConditionSnow
	case code >= 700 && code < 800:
		return ConditionMist
	case code == 800:
		return ConditionClear
	case code > 800 && code < 900:
		return ConditionCloudy
	default:
		return ConditionUnknown
	}
}

// WindDirection returns the 16-point compass bearing for deg.
func WindDirection(deg float64) string {
	i := int(math.Round(deg/22.5)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}

// IsDaytime reports whether now falls strictly between sunrise and sunset.
func IsDaytime(now time.Time, sunrise, sunset int64) bool {
	ts := now.Unix()
	return ts > sunrise && ts < sunset
}

// LocalTime formats now at the given UTC offset, e.g. "03:04 PM".
func LocalTime(now time.Time, offsetSeconds int) string {
	return now.In(time.FixedZone("", offsetSeconds)).Format(localTimeLayout)
}

// LocalDate formats now at the given UTC offset, e.g. "Monday, January 2, 2006".
func LocalDate(now time.Time, offsetSeconds int) string {
	return now.In(time.FixedZone("", offsetSeconds)).Format(localDateLayout)
}

// Summary title-cases a provider description ("light rain" -> "Light Rain").
func Summary(description string) string {
	return cases.Title(language.English).String(description)
}
