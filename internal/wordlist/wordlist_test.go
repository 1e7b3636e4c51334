package wordlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	corpora := cat.Corpora()
	assert.Contains(t, corpora, "nouns_one")
	assert.Contains(t, corpora, "verbs_present")
	assert.Contains(t, corpora, "common_words")

	groups := cat.Groups("nouns_one")
	assert.Equal(t, []string{"Group 1", "Group 2"}, groups)

	assert.Empty(t, cat.Groups("unknown_corpus"))
}

func TestAllWordPairsFlat(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	flat := cat.AllWordPairsFlat()
	require.NotEmpty(t, flat)

	for _, p := range flat {
		assert.NotEmpty(t, p.Term)
		assert.NotEmpty(t, p.Definition)
		assert.NotEmpty(t, p.Corpus)
		assert.NotEmpty(t, p.Group)
	}

	// Deterministic ordering: two loads agree.
	again, err := Load()
	require.NoError(t, err)
	assert.Equal(t, flat, again.AllWordPairsFlat())
}

func TestWordsForChoices(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	words := cat.WordsForChoices(domain.CorpusChoices{
		"nouns_one": {"Group 1"},
	})
	require.NotEmpty(t, words)
	for _, p := range words {
		assert.Equal(t, "nouns_one", p.Corpus)
		assert.Equal(t, "Group 1", p.Group)
	}

	assert.Empty(t, cat.WordsForChoices(domain.CorpusChoices{}))
	assert.Empty(t, cat.WordsForChoices(domain.CorpusChoices{"nouns_one": {"Group 99"}}))
}

func TestNoDuplicatesInBundledData(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	exact, semantic := cat.CheckForDuplicates()
	assert.Empty(t, exact)
	assert.Empty(t, semantic)
}
