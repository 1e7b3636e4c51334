// Package wordlist bundles the Trakaido Lithuanian vocabulary: corpora of
// word groups compiled into the binary. It is static content; the choice
// store decides which parts of it the learner studies.
package wordlist

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

//go:embed words.json
var wordsFS embed.FS

type pair struct {
	Lithuanian string `json:"lithuanian"`
	English    string `json:"english"`
}

// Catalog is the loaded vocabulary: corpus → group → word pairs.
type Catalog struct {
	corpora map[string]map[string][]pair
}

// Load parses the embedded wordlists.
func Load() (*Catalog, error) {
	raw, err := wordsFS.ReadFile("words.json")
	if err != nil {
		return nil, fmt.Errorf("wordlist: read embedded data: %w", err)
	}

	var corpora map[string]map[string][]pair
	if err := json.Unmarshal(raw, &corpora); err != nil {
		return nil, fmt.Errorf("wordlist: parse embedded data: %w", err)
	}
	return &Catalog{corpora: corpora}, nil
}

// Corpora returns the corpus names, sorted.
func (c *Catalog) Corpora() []string {
	names := make([]string, 0, len(c.corpora))
	for name := range c.corpora {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Groups returns the group names within a corpus, sorted. Unknown corpus
// yields an empty list.
func (c *Catalog) Groups(corpus string) []string {
	groups := make([]string, 0, len(c.corpora[corpus]))
	for name := range c.corpora[corpus] {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	return groups
}

// AllWordPairsFlat returns every word pair tagged with its corpus and group,
// in deterministic corpus/group order.
func (c *Catalog) AllWordPairsFlat() []domain.WordPair {
	var flat []domain.WordPair
	for _, corpus := range c.Corpora() {
		for _, group := range c.Groups(corpus) {
			for _, p := range c.corpora[corpus][group] {
				flat = append(flat, domain.WordPair{
					Term:       p.Lithuanian,
					Definition: p.English,
					Corpus:     corpus,
					Group:      group,
				})
			}
		}
	}
	return flat
}

// WordsForChoices returns the pairs belonging to the selected corpus/group
// combinations, in deterministic order. This is the journey selection
// universe for a given choice state.
func (c *Catalog) WordsForChoices(choices domain.CorpusChoices) []domain.WordPair {
	var out []domain.WordPair
	for _, corpus := range c.Corpora() {
		for _, group := range c.Groups(corpus) {
			if !choices.HasGroup(corpus, group) {
				continue
			}
			for _, p := range c.corpora[corpus][group] {
				out = append(out, domain.WordPair{
					Term:       p.Lithuanian,
					Definition: p.English,
					Corpus:     corpus,
					Group:      group,
				})
			}
		}
	}
	return out
}

// CheckForDuplicates reports terms that appear more than once: exact
// duplicates (same term and definition twice) and semantic duplicates (same
// term with different definitions).
func (c *Catalog) CheckForDuplicates() (exact []string, semantic map[string][]string) {
	seen := make(map[domain.WordIdentity]int)
	definitions := make(map[string][]string)
	semantic = make(map[string][]string)

	for _, p := range c.AllWordPairsFlat() {
		id := p.Identity()
		seen[id]++
		if seen[id] == 2 {
			exact = append(exact, p.Term)
		}

		found := false
		for _, d := range definitions[p.Term] {
			if d == p.Definition {
				found = true
				break
			}
		}
		if !found {
			definitions[p.Term] = append(definitions[p.Term], p.Definition)
		}
	}

	for term, defs := range definitions {
		if len(defs) > 1 {
			semantic[term] = defs
		}
	}
	sort.Strings(exact)
	return exact, semantic
}
