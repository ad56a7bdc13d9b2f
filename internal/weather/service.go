package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/recent"
)

// ErrCityNotFound is returned when the upstream does not know the named place.
var ErrCityNotFound = errors.New("city not found")

// DayClock selects the reference clock for daily forecast buckets.
type DayClock string

const (
	// DayClockLocation buckets by the forecast location's UTC offset.
	DayClockLocation DayClock = "location"
	// DayClockViewer buckets by the local zone of this process.
	DayClockViewer DayClock = "viewer"
)

// Options tunes a Service.
type Options struct {
	DayClock DayClock
}

// Service orchestrates the search path (weather by name) and the map path
// (privacy-preserving location resolution).
type Service struct {
	provider  Provider
	resolver  *geo.Resolver
	searches  *recent.Store
	snapshots SnapshotStore
	dayClock  DayClock
	now       func() time.Time
}

// NewService creates a new Service. snapshots may be nil when periodic
// refresh is disabled.
func NewService(provider Provider, resolver *geo.Resolver, searches *recent.Store, snapshots SnapshotStore, opts Options) *Service {
	if opts.DayClock == "" {
		opts.DayClock = DayClockLocation
	}
	return &Service{
		provider:  provider,
		resolver:  resolver,
		searches:  searches,
		snapshots: snapshots,
		dayClock:  opts.DayClock,
		now:       time.Now,
	}
}

// CityByName looks up current conditions by place name and attaches the
// forecast views. Unknown places yield ErrCityNotFound.
func (s *Service) CityByName(ctx context.Context, name string) (CityView, error) {
	current, err := s.provider.CurrentByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			return CityView{}, ErrCityNotFound
		}
		return CityView{}, fmt.Errorf("fetch current weather for %q: %w", name, err)
	}
	return s.buildView(ctx, current), nil
}

// CityByCoord looks up current conditions at c and attaches the forecast views.
func (s *Service) CityByCoord(ctx context.Context, c geo.Coordinate) (CityView, error) {
	if err := c.Validate(); err != nil {
		return CityView{}, err
	}
	current, err := s.provider.CurrentByCoord(ctx, c)
	if err != nil {
		return CityView{}, fmt.Errorf("fetch current weather at %s: %w", c, err)
	}
	return s.buildView(ctx, current), nil
}

func (s *Service) buildView(ctx context.Context, current Current) CityView {
	now := s.now()
	isDay := IsDaytime(now, current.Sunrise, current.Sunset)

	view := CityView{
		Current:       current,
		Condition:     ConditionFromCode(current.Code()),
		Summary:       Summary(current.Description()),
		Icon:          Icon(current.Code(), isDay),
		IsDaytime:     isDay,
		WindDirection: WindDirection(current.WindDeg),
		LocalTime:     LocalTime(now, current.TimezoneOffset),
		LocalDate:     LocalDate(now, current.TimezoneOffset),
		Hourly:        forecast.HourlySlice{},
		Daily:         []forecast.DailyAggregate{},
	}

	entries, err := s.provider.Forecast(ctx, current.Coord)
	if err != nil {
		// Degrade: the current conditions are still worth showing.
		log.Printf("provider %s forecast failed for %s: %v", s.provider.Name(), current.Coord, err)
		view.ForecastError = "forecast unavailable"
		return view
	}

	view.Hourly = forecast.Hourly(entries)
	view.Daily = forecast.Aggregate(entries, s.clockFor(current))
	return view
}

func (s *Service) clockFor(current Current) forecast.Clock {
	if s.dayClock == DayClockViewer {
		return forecast.ViewerClock()
	}
	return forecast.OffsetClock(current.TimezoneOffset)
}

// SelectLocation resolves an approximate name for a map selection and
// remembers it. Naming failures are reported in the Selection, not as an
// error; only an invalid coordinate is an error.
func (s *Service) SelectLocation(ctx context.Context, c geo.Coordinate) (Selection, error) {
	if err := c.Validate(); err != nil {
		return Selection{}, err
	}

	sel := Selection{Coordinate: c}

	res, err := s.resolver.Resolve(ctx, c)
	sel.Approximate = res.Approximate
	if err != nil {
		log.Printf("ERROR: resolving location name near %s: %v", res.Approximate.Coordinate, err)
		sel.ResolveError = err.Error()
		return sel, nil
	}
	if !res.Named() {
		return sel, nil
	}

	sel.DisplayName = res.DisplayName
	sel.Named = true

	if s.searches != nil {
		if _, err := s.searches.Add(ctx, res.DisplayName); err != nil {
			log.Printf("ERROR: saving recent search %q: %v", res.DisplayName, err)
		}
	}
	return sel, nil
}

// SaveSearch records a submitted place name.
func (s *Service) SaveSearch(ctx context.Context, name string) ([]recent.Search, error) {
	return s.searches.Add(ctx, name)
}

// RecentSearches lists remembered place names, most recent first.
func (s *Service) RecentSearches(ctx context.Context) ([]recent.Search, error) {
	return s.searches.List(ctx)
}

// RefreshRecent fetches current conditions for every recent search
// concurrently and saves them as snapshots.
func (s *Service) RefreshRecent(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("no snapshot store configured")
	}

	searches, err := s.searches.List(ctx)
	if err != nil {
		return err
	}

	log.Printf("DEBUG: RefreshRecent called for %d recent searches", len(searches))

	var wg sync.WaitGroup
	for _, search := range searches {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			current, err := s.provider.CurrentByName(ctx, name)
			if err != nil {
				// Log and continue; keep the last good snapshot.
				log.Printf("provider %s refresh failed for %s: %v", s.provider.Name(), name, err)
				return
			}
			s.snapshots.SaveSnapshot(name, current)
		}(search.Name)
	}
	wg.Wait()
	return nil
}

// Latest returns the most recently refreshed conditions for name.
func (s *Service) Latest(name string) (Current, error) {
	if s.snapshots == nil {
		return Current{}, fmt.Errorf("no snapshot store configured")
	}
	return s.snapshots.GetLatest(name)
}
