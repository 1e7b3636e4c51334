// Package stats implements the journey statistics store: the single source
// of truth for per-word learning history across both persistence backends.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

// backendProvider yields the KeyValueStore for the current storage mode.
type backendProvider interface {
	Backend() storage.KeyValueStore
}

// Listener receives a fresh deep copy of the full stats map after every
// mutation. Mutating the received map never affects store state.
type Listener func(stats domain.StatsMap)

// Service owns the in-memory stats cache and its persistence. All mutations
// go through it; callers never touch the map directly.
type Service struct {
	mu          sync.Mutex
	backends    backendProvider
	log         *slog.Logger
	now         func() time.Time
	initialized bool
	stats       domain.StatsMap
	listeners   map[int]Listener
	nextID      int
	ledger      *activityLedger
}

// NewService creates the stats store. It loads nothing until first use.
func NewService(logger *slog.Logger, backends backendProvider) *Service {
	return &Service{
		backends:  backends,
		log:       logger.With("component", "stats_store"),
		now:       time.Now,
		listeners: make(map[int]Listener),
		ledger:    newActivityLedger(),
	}
}

// Initialize loads the stats map from the current backend. It is idempotent:
// after the first call the cached state is returned untouched. Any load or
// parse failure degrades to an empty map: the learner keeps studying with
// fresh statistics rather than hitting a hard failure.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Service) initializeLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	s.stats = make(domain.StatsMap)
	s.initialized = true

	raw, err := s.backends.Backend().Read(ctx, storage.KeyJourneyStats)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("stats load failed, starting empty", slog.Any("error", err))
		}
		return nil
	}

	var loaded domain.StatsMap
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("stats payload malformed, starting empty", slog.Any("error", err))
		return nil
	}
	s.stats = loaded
	return nil
}

// ForceReinitialize discards the cache and reloads from whichever backend the
// registry currently selects. Used after a storage-mode switch; migrating
// data beforehand is the switch protocol's responsibility.
func (s *Service) ForceReinitialize(ctx context.Context) error {
	s.mu.Lock()
	s.initialized = false
	s.stats = nil
	err := s.initializeLocked(ctx)
	snapshot := s.stats.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return err
}

// AllStats returns a deep copy of the full stats map.
func (s *Service) AllStats(ctx context.Context) (domain.StatsMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return nil, err
	}
	return s.stats.Clone(), nil
}

// WordStats returns the record for one word. A word with no history yields an
// empty record, not an error.
func (s *Service) WordStats(ctx context.Context, word domain.WordIdentity) (domain.ActivityStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return domain.ActivityStats{}, err
	}
	rec, ok := s.stats[word]
	if !ok {
		return domain.NewActivityStats(), nil
	}
	return rec.Clone(), nil
}

// RecordAnswer registers the result of one exercise: increments the
// correct/incorrect tally for the activity, marks the word exposed, stamps
// LastSeen, persists write-through, and notifies listeners. Calls are applied
// in initiation order and each completes (persist + notify) before returning,
// so a read issued after RecordAnswer returns always observes the update.
// Recording the same answer twice counts twice; there is no deduplication.
func (s *Service) RecordAnswer(ctx context.Context, word domain.WordIdentity, activity domain.ActivityType, correct bool) error {
	if !activity.IsValid() || activity == domain.ActivityExposed {
		return fmt.Errorf("stats: activity %q: %w", activity, domain.ErrValidation)
	}
	if word.IsZero() {
		return fmt.Errorf("stats: empty word: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	if err := s.initializeLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}

	rec, ok := s.stats[word]
	if !ok {
		rec = domain.NewActivityStats()
	}
	counts := rec.Activities[activity]
	if correct {
		counts.Correct++
	} else {
		counts.Incorrect++
	}
	rec.Activities[activity] = counts
	rec.Exposed = true
	rec.LastSeen = s.now()
	s.stats[word] = rec

	s.ledger.record(activity, correct, rec.LastSeen)

	s.persistLocked(ctx)
	snapshot := s.stats.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return nil
}

// RecordExposure marks a word as seen without recording an answer. First
// exposure creates the record lazily.
func (s *Service) RecordExposure(ctx context.Context, word domain.WordIdentity) error {
	if word.IsZero() {
		return fmt.Errorf("stats: empty word: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	if err := s.initializeLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}

	rec, ok := s.stats[word]
	if !ok {
		rec = domain.NewActivityStats()
	}
	rec.Exposed = true
	rec.LastSeen = s.now()
	s.stats[word] = rec

	s.persistLocked(ctx)
	snapshot := s.stats.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return nil
}

// SetAllStats replaces the whole map (bulk PUT from a client) and persists.
func (s *Service) SetAllStats(ctx context.Context, stats domain.StatsMap) error {
	s.mu.Lock()
	s.initialized = true
	s.stats = stats.Clone()
	s.persistLocked(ctx)
	snapshot := s.stats.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return nil
}

// Snapshot returns the current map without triggering initialization. The
// switch protocol uses it to capture state before flipping backends.
func (s *Service) Snapshot() domain.StatsMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Clone()
}

// DailyProgress and WeeklyProgress report per-activity tallies over rolling
// windows, for the dashboard endpoints.
func (s *Service) DailyProgress() ProgressReport {
	return s.ledger.report(s.now(), 24*time.Hour)
}

func (s *Service) WeeklyProgress() ProgressReport {
	return s.ledger.report(s.now(), 7*24*time.Hour)
}

// AddListener registers a listener and returns a handle for RemoveListener.
func (s *Service) AddListener(fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[s.nextID] = fn
	return s.nextID
}

// RemoveListener unregisters a listener by handle.
func (s *Service) RemoveListener(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

// persistLocked writes through to the current backend. A failed write keeps
// the in-memory state authoritative and is logged, not surfaced: persistence
// degrades, the session continues.
func (s *Service) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.stats)
	if err != nil {
		s.log.Error("stats encode failed", slog.Any("error", err))
		return
	}
	if err := s.backends.Backend().Write(ctx, storage.KeyJourneyStats, raw); err != nil {
		s.log.Warn("stats persist failed, keeping in-memory state", slog.Any("error", err))
	}
}

func (s *Service) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

// notify calls each listener with its own copy; a panicking listener never
// prevents the others from running.
func (s *Service) notify(listeners []Listener, snapshot domain.StatsMap) {
	for _, fn := range listeners {
		func() {
			defer func() {
				if err := recover(); err != nil {
					s.log.Error("stats listener panicked", slog.Any("error", err))
				}
			}()
			fn(snapshot.Clone())
		}()
	}
}
