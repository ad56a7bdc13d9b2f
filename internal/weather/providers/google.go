package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-lookup/internal/geo"
)

// GoogleGeocoder implements geo.ReverseGeocoder on the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string

	// reverse is swapped in tests.
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

var _ geo.ReverseGeocoder = (*GoogleGeocoder)(nil)

// The geocoder package reads its key from a package-level variable.
var googleKeyMu sync.Mutex

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	g := &GoogleGeocoder{apiKey: apiKey}
	g.reverse = g.lookup
	return g
}

func (g *GoogleGeocoder) lookup(loc geocoder.Location) ([]geocoder.Address, error) {
	googleKeyMu.Lock()
	defer googleKeyMu.Unlock()

	geocoder.ApiKey = g.apiKey
	return geocoder.GeocodingReverse(loc)
}

// ReverseGeocode resolves c to at most limit places. The underlying client
// is not context aware, so cancellation abandons the call rather than
// aborting it.
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, c geo.Coordinate, limit int) ([]geo.Place, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google geocoder api key is not configured")
	}

	type result struct {
		addresses []geocoder.Address
		err       error
	}
	done := make(chan result, 1)
	go func() {
		addresses, err := g.reverse(geocoder.Location{Latitude: c.Lat, Longitude: c.Lng})
		done <- result{addresses: addresses, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, r.err
	}

	places := make([]geo.Place, 0, min(limit, len(r.addresses)))
	for _, a := range r.addresses {
		if len(places) >= limit {
			break
		}
		name := a.City
		if name == "" {
			name = a.County
		}
		places = append(places, geo.Place{
			Name:    name,
			State:   a.State,
			Country: a.Country,
		})
	}
	return places, nil
}
