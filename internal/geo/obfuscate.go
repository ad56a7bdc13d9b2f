package geo

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Sampling selects how the random displacement distance is drawn.
type Sampling int

const (
	// CenterBiased draws the distance uniformly in [0, r]. Points cluster
	// near the true location.
	CenterBiased Sampling = iota

	// UniformArea draws the distance as r*sqrt(U), which spreads points
	// evenly over the disc.
	UniformArea
)

// ParseSampling maps "center" and "uniform" to a Sampling.
func ParseSampling(s string) (Sampling, bool) {
	switch s {
	case "center", "":
		return CenterBiased, true
	case "uniform":
		return UniformArea, true
	default:
		return CenterBiased, false
	}
}

// RandSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// ObfuscatedCoordinate is a randomly displaced stand-in for a true point.
// It records the radius so callers can draw the uncertainty region, and
// nothing about the original point.
type ObfuscatedCoordinate struct {
	Coordinate
	RadiusMeters float64 `json:"radiusMeters"`
}

// Obfuscator displaces coordinates by a bounded random offset.
type Obfuscator struct {
	mu       sync.Mutex
	rng      RandSource
	sampling Sampling
}

// NewObfuscator returns an Obfuscator drawing from rng. A nil rng uses the
// runtime-seeded global generator.
func NewObfuscator(rng RandSource, sampling Sampling) *Obfuscator {
	if rng == nil {
		rng = globalSource{}
	}
	return &Obfuscator{rng: rng, sampling: sampling}
}

// Obfuscate returns a point at most radiusMeters from c.
//
// The offset is applied in raw degrees: longitude is not scaled by
// cos(latitude), so east-west spread narrows in meters toward the poles.
// Latitude is clamped to the poles and longitude wrapped into [-180, 180].
func (o *Obfuscator) Obfuscate(c Coordinate, radiusMeters float64) ObfuscatedCoordinate {
	if radiusMeters < 0 || math.IsNaN(radiusMeters) {
		radiusMeters = 0
	}
	radiusDeg := radiusMeters / MetersPerDegree

	o.mu.Lock()
	angle := o.rng.Float64() * 2 * math.Pi
	u := o.rng.Float64()
	o.mu.Unlock()

	distance := u * radiusDeg
	if o.sampling == UniformArea {
		distance = radiusDeg * math.Sqrt(u)
	}

	lat := c.Lat + math.Cos(angle)*distance
	lng := c.Lng + math.Sin(angle)*distance

	return ObfuscatedCoordinate{
		Coordinate: Coordinate{
			Lat: math.Max(-90, math.Min(90, lat)),
			Lng: wrapLongitude(lng),
		},
		RadiusMeters: radiusMeters,
	}
}

func wrapLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
