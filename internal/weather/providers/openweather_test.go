package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const currentPayload = `{
  "name": "Paris", "dt": 1760400000, "timezone": 7200, "visibility": 10000,
  "coord": {"lat": 48.8534, "lon": 2.3488},
  "main": {"temp": 14.2, "feels_like": 13.1, "temp_min": 12.0, "temp_max": 16.5, "humidity": 71, "pressure": 1017},
  "wind": {"speed": 4.1, "deg": 230},
  "clouds": {"all": 40},
  "sys": {"country": "FR", "sunrise": 1760380000, "sunset": 1760420000},
  "weather": [{"id": 802, "main": "Clouds", "description": "scattered clouds", "icon": "03d"}]
}`

const forecastPayload = `{"list": [
  {"dt": 1760410800, "main": {"temp": 15, "feels_like": 14, "temp_min": 13, "temp_max": 16, "humidity": 60}, "weather": [{"id": 500}], "wind": {"speed": 3.5}, "pop": 0.4},
  {"dt": 1760421600, "main": {"temp": 12, "feels_like": 11, "temp_min": 11, "temp_max": 12.5, "humidity": 75}, "weather": [], "wind": {"speed": 2}}
]}`

func testConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Client: &http.Client{Timeout: 2 * time.Second},
		Backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
	}
}

func newTestServer(t *testing.T, h http.HandlerFunc) (*OpenWeatherProvider, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewOpenWeatherProvider(testConfig(), srv.URL, "test-key"), &hits
}

func TestCurrentByName(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(currentPayload))
	})

	got, err := p.CurrentByName(context.Background(), " Paris ")
	require.NoError(t, err)

	assert.Equal(t, "Paris", got.Name)
	assert.Equal(t, "FR", got.Country)
	assert.Equal(t, geo.Coordinate{Lat: 48.8534, Lng: 2.3488}, got.Coord)
	assert.Equal(t, 7200, got.TimezoneOffset)
	assert.Equal(t, int64(1760380000), got.Sunrise)
	assert.Equal(t, 16.5, got.TempMax)
	assert.Equal(t, 230.0, got.WindDeg)
	assert.Equal(t, 802, got.Code())
	assert.Equal(t, "scattered clouds", got.Description())
}

func TestCurrentByNameNotFoundIsNotRetried(t *testing.T) {
	p, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := p.CurrentByName(context.Background(), "Atlantis")
	require.ErrorIs(t, err, weather.ErrCityNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCurrentByNameClientErrorsAreNotFound(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		p, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"cod":"400","message":"Nothing to geocode"}`))
		})

		_, err := p.CurrentByName(context.Background(), ",")
		require.ErrorIs(t, err, weather.ErrCityNotFound, "status %d", status)
		assert.Equal(t, int32(1), atomic.LoadInt32(hits), "status %d", status)
	}
}

func TestCurrentByNameRateLimitIsNotNotFound(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.CurrentByName(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, weather.ErrCityNotFound)
	assert.ErrorIs(t, err, errRateLimited)
}

func TestCurrentByCoord(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.85", r.URL.Query().Get("lat"))
		assert.Equal(t, "2.35", r.URL.Query().Get("lon"))
		_, _ = w.Write([]byte(currentPayload))
	})

	got, err := p.CurrentByCoord(context.Background(), geo.Coordinate{Lat: 48.85, Lng: 2.35})
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Name)
}

func TestServerErrorsAreRetried(t *testing.T) {
	p, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.CurrentByName(context.Background(), "Paris")
	require.ErrorIs(t, err, errServerError)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	var calls int32
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(currentPayload))
	})

	got, err := p.CurrentByName(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Name)
}

func TestForecast(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		_, _ = w.Write([]byte(forecastPayload))
	})

	got, err := p.Forecast(context.Background(), geo.Coordinate{Lat: 1, Lng: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1760410800), got[0].Timestamp)
	assert.Equal(t, 16.0, got[0].TempMax)
	assert.Equal(t, 500, got[0].WeatherCode)
	assert.Equal(t, 0.4, got[0].PrecipitationProbability)
	assert.Equal(t, 0, got[1].WeatherCode)
	assert.Zero(t, got[1].PrecipitationProbability)
}

func TestForecastMalformedBody(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list": [`))
	})

	_, err := p.Forecast(context.Background(), geo.Coordinate{})
	assert.Error(t, err)
}

func TestReverseGeocode(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/reverse", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"name": "Paris", "country": "FR", "lat": 48.85, "lon": 2.35}]`))
	})

	got, err := p.ReverseGeocode(context.Background(), geo.Coordinate{Lat: 48.85, Lng: 2.35}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paris, FR", got[0].DisplayName())
}

func TestReverseGeocodeEmpty(t *testing.T) {
	p, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	got, err := p.ReverseGeocode(context.Background(), geo.Coordinate{Lat: -50, Lng: -140}, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMissingAPIKey(t *testing.T) {
	p := NewOpenWeatherProvider(testConfig(), "http://127.0.0.1:1", "")
	_, err := p.CurrentByName(context.Background(), "Paris")
	assert.Error(t, err)
}

func TestLimiterCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	cfg.Limiter.Allow()

	p := NewOpenWeatherProvider(cfg, "http://127.0.0.1:1", "test-key")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.CurrentByName(ctx, "Paris")
	assert.Error(t, err)
}

func TestGoogleGeocoder(t *testing.T) {
	g := NewGoogleGeocoder("key")
	g.reverse = func(loc geocoder.Location) ([]geocoder.Address, error) {
		assert.Equal(t, 30.0, loc.Latitude)
		return []geocoder.Address{
			{City: "Austin", State: "Texas", Country: "United States"},
			{City: "Elsewhere"},
		}, nil
	}

	got, err := g.ReverseGeocode(context.Background(), geo.Coordinate{Lat: 30, Lng: -97}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Austin, Texas, United States", got[0].DisplayName())

	g.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		return nil, errors.New("quota exceeded")
	}
	_, err = g.ReverseGeocode(context.Background(), geo.Coordinate{}, 1)
	assert.Error(t, err)
}
