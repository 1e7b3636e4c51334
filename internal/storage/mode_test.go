package storage

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

type fakeKV struct{ name string }

func (f *fakeKV) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeKV) Write(ctx context.Context, key string, value []byte) error {
	return nil
}

func newTestRegistry() (*ModeRegistry, *fakeKV, *fakeKV) {
	local := &fakeKV{name: "local"}
	remote := &fakeKV{name: "remote"}
	reg := NewModeRegistry(slog.Default(), domain.StorageModeLocal, local, remote)
	return reg, local, remote
}

func TestModeRegistryRouting(t *testing.T) {
	reg, local, remote := newTestRegistry()

	assert.Equal(t, domain.StorageModeLocal, reg.Mode())
	assert.Same(t, KeyValueStore(local), reg.Backend())
	assert.Same(t, KeyValueStore(remote), reg.BackendFor(domain.StorageModeRemote))

	reg.SetMode(domain.StorageModeRemote)
	assert.Equal(t, domain.StorageModeRemote, reg.Mode())
	assert.Same(t, KeyValueStore(remote), reg.Backend())
}

func TestModeRegistryListeners(t *testing.T) {
	reg, _, _ := newTestRegistry()

	var got []domain.StorageMode
	id := reg.AddListener(func(m domain.StorageMode) { got = append(got, m) })

	reg.SetMode(domain.StorageModeRemote)
	reg.SetMode(domain.StorageModeRemote) // unchanged, no notification
	reg.SetMode(domain.StorageMode("BAD"))

	require.Equal(t, []domain.StorageMode{domain.StorageModeRemote}, got)

	reg.RemoveListener(id)
	reg.SetMode(domain.StorageModeLocal)
	assert.Len(t, got, 1)
}

func TestModeRegistryListenerPanicIsolated(t *testing.T) {
	reg, _, _ := newTestRegistry()

	called := false
	reg.AddListener(func(domain.StorageMode) { panic("listener bug") })
	reg.AddListener(func(domain.StorageMode) { called = true })

	assert.NotPanics(t, func() { reg.SetMode(domain.StorageModeRemote) })
	assert.True(t, called)
}
