package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrNotFound is returned when no conditions have been refreshed for a name.
	ErrNotFound = errors.New("no refreshed conditions for place")
)

type snapshot struct {
	current weather.Current
	savedAt time.Time
}

// placeHistory holds a time-ordered list of refreshed conditions for a place.
type placeHistory struct {
	snapshots []snapshot
}

// MemoryStore is a concurrency-safe in-memory table of refreshed conditions.
type MemoryStore struct {
	mu sync.RWMutex

	// key: case-folded place name, value: history
	data map[string]*placeHistory

	// retention configuration
	maxHistory int           // max number of snapshots per place
	maxAge     time.Duration // optional max age for snapshots

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*placeHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot appends refreshed conditions for name and enforces retention.
func (s *MemoryStore) SaveSnapshot(name string, current weather.Current) {
	key := common.FoldKey(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &placeHistory{}
		s.data[key] = history
	}

	now := s.now()
	history.snapshots = append(history.snapshots, snapshot{current: current, savedAt: now})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].savedAt.Before(cutoff) {
				break
			}
		}
		history.snapshots = history.snapshots[i:]
	}
}

// GetLatest returns the most recent conditions saved for name.
func (s *MemoryStore) GetLatest(name string) (weather.Current, error) {
	key := common.FoldKey(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.snapshots) == 0 {
		return weather.Current{}, ErrNotFound
	}
	latest := history.snapshots[len(history.snapshots)-1]
	if s.maxAge > 0 && s.now().Sub(latest.savedAt) > s.maxAge {
		return weather.Current{}, ErrNotFound
	}
	return latest.current, nil
}

// Len returns the number of snapshots retained for name.
func (s *MemoryStore) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if history, ok := s.data[common.FoldKey(name)]; ok {
		return len(history.snapshots)
	}
	return 0
}
