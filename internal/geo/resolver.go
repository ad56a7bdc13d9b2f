package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/weather-lookup/internal/common"
)

// DefaultRadiusMeters is the obfuscation radius used when none is configured.
const DefaultRadiusMeters = 10000

// ErrReverseGeocode wraps any failure to name an obfuscated point.
var ErrReverseGeocode = errors.New("reverse geocoding failed")

// Place is one reverse-geocoding candidate. Any field may be empty.
type Place struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// DisplayName joins the non-empty parts of p with ", ".
func (p Place) DisplayName() string {
	return common.JoinNonEmpty(", ", p.Name, p.State, p.Country)
}

// ReverseGeocoder resolves a point to at most limit candidate places.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinate, limit int) ([]Place, error)
}

// Resolution is the outcome of naming a map selection. Approximate is always
// set, even when naming failed.
type Resolution struct {
	DisplayName string               `json:"displayName"`
	Approximate ObfuscatedCoordinate `json:"approximate"`
}

// Named reports whether a usable display name was found.
func (r Resolution) Named() bool {
	return r.DisplayName != ""
}

// Resolver obfuscates a selected point and reverse-geocodes the result.
type Resolver struct {
	geocoder     ReverseGeocoder
	obfuscator   *Obfuscator
	radiusMeters float64

	// OnApproximate, when set, receives the obfuscated point before the
	// geocoding request is issued.
	OnApproximate func(ObfuscatedCoordinate)
}

// NewResolver creates a Resolver. A nil obfuscator uses center-biased
// sampling over the global generator.
func NewResolver(geocoder ReverseGeocoder, obfuscator *Obfuscator, radiusMeters float64) *Resolver {
	if obfuscator == nil {
		obfuscator = NewObfuscator(nil, CenterBiased)
	}
	return &Resolver{
		geocoder:     geocoder,
		obfuscator:   obfuscator,
		radiusMeters: radiusMeters,
	}
}

// Resolve names the area around c without sending c itself upstream.
// Zero candidates is a valid, unnamed Resolution and not an error.
func (r *Resolver) Resolve(ctx context.Context, c Coordinate) (Resolution, error) {
	approx := r.obfuscator.Obfuscate(c, r.radiusMeters)
	res := Resolution{Approximate: approx}

	if r.OnApproximate != nil {
		r.OnApproximate(approx)
	}

	if r.geocoder == nil {
		return res, fmt.Errorf("%w: no geocoder configured", ErrReverseGeocode)
	}

	places, err := r.geocoder.ReverseGeocode(ctx, approx.Coordinate, 1)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrReverseGeocode, err)
	}
	if len(places) == 0 {
		return res, nil
	}

	res.DisplayName = places[0].DisplayName()
	return res, nil
}
