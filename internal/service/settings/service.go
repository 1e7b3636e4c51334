// Package settings implements the storage-mode switch protocol: reading the
// old backend's snapshot, flipping the mode, reinitializing the stores, and
// pushing the snapshot so data survives the switch.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type modeRegistry interface {
	Mode() domain.StorageMode
	SetMode(mode domain.StorageMode)
	BackendFor(mode domain.StorageMode) storage.KeyValueStore
}

type reinitializable interface {
	Snapshot() domain.StatsMap
	SetAllStats(ctx context.Context, stats domain.StatsMap) error
	ForceReinitialize(ctx context.Context) error
}

type choiceReinitializable interface {
	Snapshot() domain.CorpusChoices
	SetAllChoices(ctx context.Context, choices domain.CorpusChoices) error
	ForceReinitialize(ctx context.Context) error
}

type universeInvalidator interface {
	InvalidateUniverse()
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// SwitchResult reports the outcome of a mode switch. A switch can succeed
// while the data push does not; the mode is never rolled back.
type SwitchResult struct {
	Mode       domain.StorageMode `json:"mode"`
	Pushed     bool               `json:"pushed"`
	PushFailed bool               `json:"pushFailed"`
	Warning    string             `json:"warning,omitempty"`
}

// Config controls migration direction.
type Config struct {
	// PushOnRemoteToLocal makes the REMOTE→LOCAL switch push data the same
	// way LOCAL→REMOTE always does. The historical behavior is asymmetric:
	// only LOCAL→REMOTE migrates.
	PushOnRemoteToLocal bool
}

// Service owns mode switches. One switch runs at a time.
type Service struct {
	mu      sync.Mutex
	modes   modeRegistry
	stats   reinitializable
	choices choiceReinitializable
	journey universeInvalidator
	cfg     Config
	log     *slog.Logger
}

// NewService creates the settings service.
func NewService(logger *slog.Logger, modes modeRegistry, stats reinitializable, choices choiceReinitializable, journey universeInvalidator, cfg Config) *Service {
	return &Service{
		modes:   modes,
		stats:   stats,
		choices: choices,
		journey: journey,
		cfg:     cfg,
		log:     logger.With("component", "settings"),
	}
}

// Mode returns the current storage mode.
func (s *Service) Mode() domain.StorageMode {
	return s.modes.Mode()
}

// SwitchMode changes the storage backend. The protocol, in order:
//
//  1. snapshot both stores from the old backend,
//  2. flip the mode,
//  3. force-reinitialize both stores against the new backend,
//  4. push the snapshot to the new backend when the direction migrates.
//
// A failed push does not roll back the mode: the system continues in the new
// mode with whatever the new backend held, and the result carries a warning.
func (s *Service) SwitchMode(ctx context.Context, target domain.StorageMode) (SwitchResult, error) {
	if !target.IsValid() {
		return SwitchResult{}, fmt.Errorf("settings: storage mode %q: %w", target, domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.modes.Mode()
	if target == current {
		return SwitchResult{Mode: current}, nil
	}

	statsSnapshot := s.stats.Snapshot()
	choicesSnapshot := s.choices.Snapshot()

	s.modes.SetMode(target)

	if err := s.stats.ForceReinitialize(ctx); err != nil {
		s.log.Warn("stats reinitialize after switch", slog.Any("error", err))
	}
	if err := s.choices.ForceReinitialize(ctx); err != nil {
		s.log.Warn("choices reinitialize after switch", slog.Any("error", err))
	}
	s.journey.InvalidateUniverse()

	result := SwitchResult{Mode: target}
	if !s.shouldPush(current, target) {
		s.persistModeFlag(ctx, target)
		return result, nil
	}

	result.Pushed = true
	if err := s.pushSnapshot(ctx, statsSnapshot, choicesSnapshot); err != nil {
		// Accepted risk: the mode stays flipped with partial data; the
		// caller surfaces the warning to the user.
		s.log.Error("snapshot push after switch failed", slog.Any("error", err))
		result.PushFailed = true
		result.Warning = fmt.Sprintf("data migration to %s failed: %v", target, err)
	}

	s.persistModeFlag(ctx, target)
	return result, nil
}

func (s *Service) shouldPush(from, to domain.StorageMode) bool {
	if from == domain.StorageModeLocal && to == domain.StorageModeRemote {
		return true
	}
	if from == domain.StorageModeRemote && to == domain.StorageModeLocal {
		return s.cfg.PushOnRemoteToLocal
	}
	return false
}

// pushSnapshot bulk-writes the old backend's data into the stores (which now
// run against the new backend), so SetAll persists and re-notifies in one
// step.
func (s *Service) pushSnapshot(ctx context.Context, stats domain.StatsMap, choices domain.CorpusChoices) error {
	if err := s.stats.SetAllStats(ctx, stats); err != nil {
		return fmt.Errorf("push stats: %w", err)
	}
	if err := s.choices.SetAllChoices(ctx, choices); err != nil {
		return fmt.Errorf("push choices: %w", err)
	}
	return nil
}

// persistModeFlag records the active mode in the local store so a restart
// comes back in the same mode. The flag itself is always local.
func (s *Service) persistModeFlag(ctx context.Context, mode domain.StorageMode) {
	raw, _ := json.Marshal(mode)
	if err := s.modes.BackendFor(domain.StorageModeLocal).Write(ctx, storage.KeyStorageMode, raw); err != nil {
		s.log.Warn("storage mode flag persist failed", slog.Any("error", err))
	}
}

// LoadPersistedMode reads the mode flag from the local store, falling back
// when the flag is absent or unreadable. An invalid fallback degrades to
// LOCAL.
func LoadPersistedMode(ctx context.Context, local storage.KeyValueStore, fallback domain.StorageMode) domain.StorageMode {
	if !fallback.IsValid() {
		fallback = domain.StorageModeLocal
	}
	raw, err := local.Read(ctx, storage.KeyStorageMode)
	if err != nil {
		return fallback
	}
	var mode domain.StorageMode
	if err := json.Unmarshal(raw, &mode); err != nil || !mode.IsValid() {
		return fallback
	}
	return mode
}
