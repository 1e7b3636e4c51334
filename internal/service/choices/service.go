// Package choices implements the corpus-choice store: which vocabulary
// groups the learner has opted into studying. It supplies the candidate
// universe for journey sampling.
package choices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

type backendProvider interface {
	Backend() storage.KeyValueStore
}

// Listener receives a fresh deep copy of the full choice map after every
// mutation.
type Listener func(choices domain.CorpusChoices)

// Service owns the in-memory choice cache and its persistence.
type Service struct {
	mu          sync.Mutex
	backends    backendProvider
	log         *slog.Logger
	initialized bool
	choices     domain.CorpusChoices
	listeners   map[int]Listener
	nextID      int
}

// NewService creates the choice store. It loads nothing until first use.
func NewService(logger *slog.Logger, backends backendProvider) *Service {
	return &Service{
		backends:  backends,
		log:       logger.With("component", "choice_store"),
		listeners: make(map[int]Listener),
	}
}

// Initialize loads choices from the current backend. Idempotent; failures
// degrade to an empty selection.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Service) initializeLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	s.choices = make(domain.CorpusChoices)
	s.initialized = true

	raw, err := s.backends.Backend().Read(ctx, storage.KeyCorpusChoices)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("choices load failed, starting empty", slog.Any("error", err))
		}
		return nil
	}

	var loaded domain.CorpusChoices
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("choices payload malformed, starting empty", slog.Any("error", err))
		return nil
	}
	s.choices = loaded
	return nil
}

// ForceReinitialize discards the cache and reloads from the current backend.
func (s *Service) ForceReinitialize(ctx context.Context) error {
	s.mu.Lock()
	s.initialized = false
	s.choices = nil
	err := s.initializeLocked(ctx)
	snapshot := s.choices.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return err
}

// AllChoices returns a deep copy of the full selection.
func (s *Service) AllChoices(ctx context.Context) (domain.CorpusChoices, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return nil, err
	}
	return s.choices.Clone(), nil
}

// CorpusChoices returns the selected groups for one corpus. An unknown
// corpus yields an empty list.
func (s *Service) CorpusChoices(ctx context.Context, corpus string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return nil, err
	}
	return s.choices.Groups(corpus), nil
}

// UpdateCorpusChoices replaces the group list for one corpus and persists.
// An empty group list removes the corpus from the selection.
func (s *Service) UpdateCorpusChoices(ctx context.Context, corpus string, groups []string) error {
	if corpus == "" {
		return fmt.Errorf("choices: empty corpus name: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	if err := s.initializeLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}

	if len(groups) == 0 {
		delete(s.choices, corpus)
	} else {
		cp := make([]string, len(groups))
		copy(cp, groups)
		s.choices[corpus] = cp
	}

	s.persistLocked(ctx)
	snapshot := s.choices.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return nil
}

// SetAllChoices replaces the selection wholesale and persists.
func (s *Service) SetAllChoices(ctx context.Context, choices domain.CorpusChoices) error {
	s.mu.Lock()
	s.initialized = true
	s.choices = choices.Clone()
	s.persistLocked(ctx)
	snapshot := s.choices.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, snapshot)
	return nil
}

// ClearAllChoices empties the selection and persists.
func (s *Service) ClearAllChoices(ctx context.Context) error {
	return s.SetAllChoices(ctx, domain.CorpusChoices{})
}

// Snapshot returns the current selection without triggering initialization.
func (s *Service) Snapshot() domain.CorpusChoices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.choices.Clone()
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

func (s *Service) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.choices)
	if err != nil {
		s.log.Error("choices encode failed", slog.Any("error", err))
		return
	}
	if err := s.backends.Backend().Write(ctx, storage.KeyCorpusChoices, raw); err != nil {
		s.log.Warn("choices persist failed, keeping in-memory state", slog.Any("error", err))
	}
}

func (s *Service) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func (s *Service) notify(listeners []Listener, snapshot domain.CorpusChoices) {
	for _, fn := range listeners {
		func() {
			defer func() {
				if err := recover(); err != nil {
					s.log.Error("choice listener panicked", slog.Any("error", err))
				}
			}()
			fn(snapshot.Clone())
		}()
	}
}
