package storage

import (
	"log/slog"
	"sync"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// ModeListener is notified after the storage mode changes.
type ModeListener func(mode domain.StorageMode)

// ModeRegistry holds the process-wide storage mode and routes Backend()
// lookups to the matching KeyValueStore. Changing the mode notifies
// listeners but performs no data migration; the settings service owns the
// switch protocol.
type ModeRegistry struct {
	mu        sync.RWMutex
	mode      domain.StorageMode
	local     KeyValueStore
	remote    KeyValueStore
	listeners map[int]ModeListener
	nextID    int
	log       *slog.Logger
}

// NewModeRegistry creates a registry starting in the given mode.
func NewModeRegistry(logger *slog.Logger, initial domain.StorageMode, local, remote KeyValueStore) *ModeRegistry {
	if !initial.IsValid() {
		initial = domain.StorageModeLocal
	}
	return &ModeRegistry{
		mode:      initial,
		local:     local,
		remote:    remote,
		listeners: make(map[int]ModeListener),
		log:       logger.With("component", "mode_registry"),
	}
}

// Mode returns the current storage mode.
func (r *ModeRegistry) Mode() domain.StorageMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Backend returns the KeyValueStore for the current mode.
func (r *ModeRegistry) Backend() KeyValueStore {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backendLocked()
}

// BackendFor returns the KeyValueStore for an explicit mode, regardless of
// the current one. The switch protocol uses it to read the old backend and
// push to the new one.
func (r *ModeRegistry) BackendFor(mode domain.StorageMode) KeyValueStore {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mode == domain.StorageModeRemote {
		return r.remote
	}
	return r.local
}

func (r *ModeRegistry) backendLocked() KeyValueStore {
	if r.mode == domain.StorageModeRemote {
		return r.remote
	}
	return r.local
}

// SetMode flips the mode and notifies listeners. A no-op if the mode is
// unchanged or invalid.
func (r *ModeRegistry) SetMode(mode domain.StorageMode) {
	if !mode.IsValid() {
		return
	}

	r.mu.Lock()
	if mode == r.mode {
		r.mu.Unlock()
		return
	}
	r.mode = mode
	listeners := make([]ModeListener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	r.log.Info("storage mode changed", slog.String("mode", mode.String()))
	for _, fn := range listeners {
		notifyMode(r.log, fn, mode)
	}
}

// AddListener registers a listener and returns a handle for RemoveListener.
func (r *ModeRegistry) AddListener(fn ModeListener) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.listeners[r.nextID] = fn
	return r.nextID
}

// RemoveListener unregisters a listener by handle.
func (r *ModeRegistry) RemoveListener(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, id)
}

// notifyMode isolates a panicking listener so the rest still run.
func notifyMode(log *slog.Logger, fn ModeListener, mode domain.StorageMode) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("mode listener panicked", slog.Any("error", err))
		}
	}()
	fn(mode)
}
