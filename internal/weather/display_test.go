package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		code  int
		isDay bool
		want  string
	}{
		{211, true, "⚡"},
		{310, true, "🌧️"},
		{501, false, "🌧️"},
		{601, true, "❄️"},
		{741, true, "🌫️"},
		{800, true, "☀️"},
		{800, false, "🌙"},
		{801, true, "🌤️"},
		{801, false, "☁️"},
		{802, false, "⛅"},
		{804, true, "☁️"},
		{0, true, "🌡️"},
		{450, true, "🌡️"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Icon(tt.code, tt.isDay), "code %d day %v", tt.code, tt.isDay)
	}
}

func TestConditionFromCode(t *testing.T) {
	assert.Equal(t, ConditionStorm, ConditionFromCode(202))
	assert.Equal(t, ConditionRain, ConditionFromCode(520))
	assert.Equal(t, ConditionSnow, ConditionFromCode(615))
	assert.Equal(t, ConditionMist, ConditionFromCode(701))
	assert.Equal(t, ConditionClear, ConditionFromCode(800))
	assert.Equal(t, ConditionCloudy, ConditionFromCode(803))
	assert.Equal(t, ConditionUnknown, ConditionFromCode(0))
}

func TestWindDirection(t *testing.T) {
	assert.Equal(t, "N", WindDirection(0))
	assert.Equal(t, "N", WindDirection(355))
	assert.Equal(t, "NNE", WindDirection(20))
	assert.Equal(t, "E", WindDirection(90))
	assert.Equal(t, "SW", WindDirection(225))
	assert.Equal(t, "NNW", WindDirection(-20))
}

func TestIsDaytime(t *testing.T) {
	sunrise := time.Date(2026, time.June, 1, 4, 0, 0, 0, time.UTC).Unix()
	sunset := time.Date(2026, time.June, 1, 20, 0, 0, 0, time.UTC).Unix()

	assert.True(t, IsDaytime(time.Unix(sunrise+3600, 0), sunrise, sunset))
	assert.False(t, IsDaytime(time.Unix(sunrise, 0), sunrise, sunset))
	assert.False(t, IsDaytime(time.Unix(sunset+1, 0), sunrise, sunset))
}

func TestLocalTimeAndDate(t *testing.T) {
	now := time.Date(2026, time.October, 14, 22, 5, 0, 0, time.UTC)

	assert.Equal(t, "10:05 PM", LocalTime(now, 0))
	assert.Equal(t, "07:05 AM", LocalTime(now, 9*3600))
	assert.Equal(t, "Thursday, October 15, 2026", LocalDate(now, 9*3600))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Light Rain", Summary("light rain"))
	assert.Equal(t, "", Summary(""))
}
