package weather

import (
	"context"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/geo"
)

// Provider abstracts the upstream weather API (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	CurrentByName(ctx context.Context, name string) (Current, error)
	CurrentByCoord(ctx context.Context, c geo.Coordinate) (Current, error)
	Forecast(ctx context.Context, c geo.Coordinate) ([]forecast.Entry, error)
}

// SnapshotStore holds the latest refreshed conditions per place name.
type SnapshotStore interface {
	SaveSnapshot(name string, snapshot Current)
	GetLatest(name string) (Current, error)
}
