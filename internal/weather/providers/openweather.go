package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider and geo.ReverseGeocoder
// for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig

	// Separate breakers so a geocoding outage does not block weather lookups.
	weatherCircuit *gobreaker.CircuitBreaker
	geoCircuit     *gobreaker.CircuitBreaker
}

var (
	_ weather.Provider    = (*OpenWeatherProvider)(nil)
	_ geo.ReverseGeocoder = (*OpenWeatherProvider)(nil)
)

func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:           "openweathermap",
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpCfg:        cfg,
		weatherCircuit: newCircuitBreaker("openweather"),
		geoCircuit:     newCircuitBreaker("openweather-geo"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrentResponse struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Visibility int            `json:"visibility"`
	Timezone   int            `json:"timezone"`
	Weather    []owmCondition `json:"weather"`
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

type owmReversePlace struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// CurrentByName fetches current conditions for a place name. Any client error
// status other than 429 (404, or 400 for an ungeocodable query) maps to
// weather.ErrCityNotFound.
func (p *OpenWeatherProvider) CurrentByName(ctx context.Context, name string) (weather.Current, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return weather.Current{}, weather.ErrCityNotFound
	}

	values := url.Values{}
	values.Set("q", name)
	current, err := p.fetchCurrent(ctx, values)
	if isClientError(err) {
		return weather.Current{}, fmt.Errorf("%w: %s: %v", weather.ErrCityNotFound, name, err)
	}
	return current, err
}

// CurrentByCoord fetches current conditions at c.
func (p *OpenWeatherProvider) CurrentByCoord(ctx context.Context, c geo.Coordinate) (weather.Current, error) {
	return p.fetchCurrent(ctx, coordValues(c))
}

func (p *OpenWeatherProvider) fetchCurrent(ctx context.Context, values url.Values) (weather.Current, error) {
	var payload owmCurrentResponse
	if err := p.getJSON(ctx, p.weatherCircuit, "/data/2.5/weather", values, &payload); err != nil {
		return weather.Current{}, err
	}

	conditions := make([]weather.WeatherCondition, 0, len(payload.Weather))
	for _, w := range payload.Weather {
		conditions = append(conditions, weather.WeatherCondition(w))
	}

	return weather.Current{
		Name:           payload.Name,
		Country:        payload.Sys.Country,
		Coord:          geo.Coordinate{Lat: payload.Coord.Lat, Lng: payload.Coord.Lon},
		TimezoneOffset: payload.Timezone,
		Timestamp:      payload.Dt,
		Sunrise:        payload.Sys.Sunrise,
		Sunset:         payload.Sys.Sunset,
		Temperature:    payload.Main.Temp,
		FeelsLike:      payload.Main.FeelsLike,
		TempMin:        payload.Main.TempMin,
		TempMax:        payload.Main.TempMax,
		Humidity:       payload.Main.Humidity,
		Pressure:       payload.Main.Pressure,
		WindSpeed:      payload.Wind.Speed,
		WindDeg:        payload.Wind.Deg,
		WindGust:       payload.Wind.Gust,
		Clouds:         payload.Clouds.All,
		Visibility:     payload.Visibility,
		Conditions:     conditions,
	}, nil
}

// Forecast fetches the 5-day / 3-hour series at c, in provider order.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, c geo.Coordinate) ([]forecast.Entry, error) {
	var payload owmForecastResponse
	if err := p.getJSON(ctx, p.weatherCircuit, "/data/2.5/forecast", coordValues(c), &payload); err != nil {
		return nil, err
	}

	entries := make([]forecast.Entry, 0, len(payload.List))
	for _, item := range payload.List {
		code := 0
		if len(item.Weather) > 0 {
			code = item.Weather[0].ID
		}
		entries = append(entries, forecast.Entry{
			Timestamp:                item.Dt,
			Temperature:              item.Main.Temp,
			FeelsLike:                item.Main.FeelsLike,
			TempMin:                  item.Main.TempMin,
			TempMax:                  item.Main.TempMax,
			Humidity:                 item.Main.Humidity,
			WindSpeed:                item.Wind.Speed,
			WeatherCode:              code,
			PrecipitationProbability: item.Pop,
		})
	}
	return entries, nil
}

// ReverseGeocode resolves c to at most limit places.
func (p *OpenWeatherProvider) ReverseGeocode(ctx context.Context, c geo.Coordinate, limit int) ([]geo.Place, error) {
	values := coordValues(c)
	values.Set("limit", strconv.Itoa(limit))

	var payload []owmReversePlace
	if err := p.getJSON(ctx, p.geoCircuit, "/geo/1.0/reverse", values, &payload); err != nil {
		return nil, err
	}

	places := make([]geo.Place, 0, len(payload))
	for _, item := range payload {
		places = append(places, geo.Place(item))
	}
	return places, nil
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, cb *gobreaker.CircuitBreaker, path string, values url.Values, target interface{}) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", "metric")

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, cb, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func coordValues(c geo.Coordinate) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	return values
}
