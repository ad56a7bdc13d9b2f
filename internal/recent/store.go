package recent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/common"
)

const (
	// MaxEntries caps the persisted list.
	MaxEntries = 5

	// SlotKey names the persisted slot.
	SlotKey = "recentSearches"
)

// ErrEmptyName is returned when a blank search is added.
var ErrEmptyName = errors.New("search name is empty")

// Search is one remembered query.
type Search struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Slot is a durable single-value key-value slot holding the serialized list.
// Load returns nil data and no error when nothing has been saved yet.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store keeps a capped, most-recent-first, case-insensitively deduplicated
// list of searches in a Slot.
type Store struct {
	mu    sync.Mutex
	slot  Slot
	now   func() time.Time
	newID func() string
}

// NewStore creates a Store over slot.
func NewStore(slot Slot) *Store {
	return &Store{
		slot:  slot,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns the stored searches, most recent first. Stored data that
// cannot be parsed is treated as an empty list.
func (s *Store) List(ctx context.Context) ([]Search, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Add records name at the front of the list, drops older entries with the
// same name in any casing, caps the list and persists it.
func (s *Store) Add(ctx context.Context, name string) ([]Search, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]Search, 0, MaxEntries)
	updated = append(updated, Search{
		ID:        s.newID(),
		Name:      name,
		Timestamp: s.now().UnixMilli(),
	})
	for _, search := range current {
		if len(updated) >= MaxEntries {
			break
		}
		if common.FoldEqual(search.Name, name) {
			continue
		}
		updated = append(updated, search)
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("encode recent searches: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("save recent searches: %w", err)
	}
	return updated, nil
}

func (s *Store) load(ctx context.Context) ([]Search, error) {
	data, err := s.slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recent searches: %w", err)
	}
	if len(data) == 0 {
		return []Search{}, nil
	}

	var searches []Search
	if err := json.Unmarshal(data, &searches); err != nil {
		log.Printf("ERROR: discarding unparsable recent searches: %v", err)
		return []Search{}, nil
	}
	if len(searches) > MaxEntries {
		searches = searches[:MaxEntries]
	}
	return searches, nil
}
