// Package theme holds the visitor's dark/light display setting and persists
// every change before observers hear about it.
package theme

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	applog "mlsweb/internal/log"
)

// Setting is one of the two display modes.
type Setting string

const (
	Dark  Setting = "dark"
	Light Setting = "light"

	// Default applies when no valid persisted value exists.
	Default = Dark

	// StorageKey names the persisted entry holding the setting.
	StorageKey = "mls-theme"
)

// ErrNoStorage is returned when a Store is built without a storage backend.
var ErrNoStorage = errors.New("theme: storage not configured")

// Parse converts a persisted literal into a Setting.
func Parse(value string) (Setting, bool) {
	switch Setting(strings.ToLower(strings.TrimSpace(value))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	default:
		return "", false
	}
}

// Toggled returns the opposite setting.
func (s Setting) Toggled() Setting {
	if s == Light {
		return Dark
	}
	return Light
}

// IsDark reports whether the setting renders the dark palette.
func (s Setting) IsDark() bool {
	return s != Light
}

func (s Setting) String() string {
	return string(s)
}

// Storage persists the raw setting literal. Load returns an empty string when
// nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value Setting) error
}

// Store owns one visitor's setting.
type Store struct {
	storage Storage

	// writeMu serialises toggles so persistence and notification happen in order.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current Setting
	subs    map[int]func(Setting)
	nextSub int
}

// NewStore reads the persisted value from storage, falling back to Default
// when it is absent, invalid, or unreadable.
func NewStore(ctx context.Context, storage Storage) (*Store, error) {
	if storage == nil {
		return nil, ErrNoStorage
	}

	current := Default
	raw, err := storage.Load(ctx)
	switch {
	case err != nil:
		applog.Warn(ctx, "theme storage unreadable, using default", "error", err, "theme", Default)
	case raw == "":
		applog.Debug(ctx, "no persisted theme, using default", "theme", Default)
	default:
		if parsed, ok := Parse(raw); ok {
			current = parsed
		} else {
			applog.Debug(ctx, "persisted theme invalid, using default", "value", raw)
		}
	}

	return &Store{
		storage: storage,
		current: current,
		subs:    make(map[int]func(Setting)),
	}, nil
}

// Get returns the active setting.
func (s *Store) Get() Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsDark reports whether the active setting is dark.
func (s *Store) IsDark() bool {
	return s.Get().IsDark()
}

// Toggle flips the setting, persists it, and notifies subscribers before
// returning. On a persistence failure the setting is left unchanged.
func (s *Store) Toggle(ctx context.Context) (Setting, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Get().Toggled()
	if err := s.apply(ctx, next); err != nil {
		return s.Get(), err
	}
	return next, nil
}

// Set selects a specific setting through the same persist-then-notify path as Toggle.
func (s *Store) Set(ctx context.Context, value Setting) error {
	parsed, ok := Parse(string(value))
	if !ok {
		return fmt.Errorf("theme: unknown setting %q", value)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Get() == parsed {
		return nil
	}
	return s.apply(ctx, parsed)
}

func (s *Store) apply(ctx context.Context, next Setting) error {
	if err := s.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("theme: persist %s: %w", next, err)
	}

	s.mu.Lock()
	s.current = next
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]func(Setting), 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
	return nil
}

// Subscribe registers fn to be called after every persisted change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Setting)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
