package choices

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

type memoryKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	failNext bool
}

func newMemoryKV() *memoryKV { return &memoryKV{data: make(map[string][]byte)} }

func (m *memoryKV) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return nil, errors.New("backend unavailable")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Write(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type staticBackends struct{ kv storage.KeyValueStore }

func (b *staticBackends) Backend() storage.KeyValueStore { return b.kv }

func newTestService(kv storage.KeyValueStore) *Service {
	return NewService(slog.Default(), &staticBackends{kv: kv})
}

func TestUnknownCorpusYieldsEmptyList(t *testing.T) {
	svc := newTestService(newMemoryKV())

	groups, err := svc.CorpusChoices(context.Background(), "verbs_future")
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestUpdateCorpusChoicesPersistsAndNotifies(t *testing.T) {
	kv := newMemoryKV()
	svc := newTestService(kv)
	ctx := context.Background()

	var notified domain.CorpusChoices
	svc.AddListener(func(c domain.CorpusChoices) { notified = c })

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1", "Group 2"}))

	groups, err := svc.CorpusChoices(ctx, "nouns_one")
	require.NoError(t, err)
	assert.Equal(t, []string{"Group 1", "Group 2"}, groups)
	assert.Equal(t, []string{"Group 1", "Group 2"}, notified["nouns_one"])

	var persisted domain.CorpusChoices
	require.NoError(t, json.Unmarshal(kv.data[storage.KeyCorpusChoices], &persisted))
	assert.Equal(t, []string{"Group 1", "Group 2"}, persisted["nouns_one"])
}

func TestUpdateWithEmptyGroupsRemovesCorpus(t *testing.T) {
	svc := newTestService(newMemoryKV())
	ctx := context.Background()

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1"}))
	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", nil))

	all, err := svc.AllChoices(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "nouns_one")
}

func TestSetAllChoicesReplacesWholesale(t *testing.T) {
	svc := newTestService(newMemoryKV())
	ctx := context.Background()

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1"}))
	require.NoError(t, svc.SetAllChoices(ctx, domain.CorpusChoices{
		"verbs_present": {"Group 3"},
	}))

	all, _ := svc.AllChoices(ctx)
	assert.Equal(t, domain.CorpusChoices{"verbs_present": {"Group 3"}}, all)
}

func TestClearAllChoices(t *testing.T) {
	svc := newTestService(newMemoryKV())
	ctx := context.Background()

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1"}))
	require.NoError(t, svc.ClearAllChoices(ctx))

	all, _ := svc.AllChoices(ctx)
	assert.Empty(t, all)
}

func TestInitializeLoadsPersistedSelection(t *testing.T) {
	kv := newMemoryKV()
	kv.data[storage.KeyCorpusChoices] = []byte(`{"common_words":["Group 1"]}`)
	svc := newTestService(kv)

	groups, err := svc.CorpusChoices(context.Background(), "common_words")
	require.NoError(t, err)
	assert.Equal(t, []string{"Group 1"}, groups)
}

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.failNext = true
	svc := newTestService(kv)

	all, err := svc.AllChoices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestForceReinitialize(t *testing.T) {
	kv := newMemoryKV()
	svc := newTestService(kv)
	ctx := context.Background()

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1"}))

	kv.mu.Lock()
	kv.data[storage.KeyCorpusChoices] = []byte(`{"verbs_past":["Group 9"]}`)
	kv.mu.Unlock()

	require.NoError(t, svc.ForceReinitialize(ctx))

	all, _ := svc.AllChoices(ctx)
	assert.Equal(t, domain.CorpusChoices{"verbs_past": {"Group 9"}}, all)
}

func TestUpdateRejectsEmptyCorpus(t *testing.T) {
	svc := newTestService(newMemoryKV())
	err := svc.UpdateCorpusChoices(context.Background(), "", []string{"Group 1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMutatingReturnedMapDoesNotAffectStore(t *testing.T) {
	svc := newTestService(newMemoryKV())
	ctx := context.Background()

	require.NoError(t, svc.UpdateCorpusChoices(ctx, "nouns_one", []string{"Group 1"}))

	all, _ := svc.AllChoices(ctx)
	all["nouns_one"][0] = "mutated"

	groups, _ := svc.CorpusChoices(ctx, "nouns_one")
	assert.Equal(t, []string{"Group 1"}, groups)
}
