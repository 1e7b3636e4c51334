package domain

import (
	"fmt"
	"strings"
)

// WordIdentity identifies one vocabulary item: the Lithuanian term and its
// English definition. It is a comparable value type and is used directly as a
// map key, rather than a concatenated string, so a hyphen inside either field
// cannot collide with the key delimiter.
type WordIdentity struct {
	Term       string `json:"lithuanian"`
	Definition string `json:"english"`
}

func (w WordIdentity) IsZero() bool {
	return w.Term == "" && w.Definition == ""
}

func (w WordIdentity) String() string {
	return w.Term + " (" + w.Definition + ")"
}

// WireKey renders the identity in the "term-definition" form used by the
// journey-stats wire format. The legacy format is ambiguous when a term
// contains a hyphen; it is kept only for compatibility at the storage and
// API boundary, never as an internal map key.
func (w WordIdentity) WireKey() string {
	return w.Term + "-" + w.Definition
}

// ParseWireKey splits a "term-definition" key at the first hyphen. An input
// without a hyphen is rejected.
func ParseWireKey(key string) (WordIdentity, error) {
	term, def, ok := strings.Cut(key, "-")
	if !ok {
		return WordIdentity{}, fmt.Errorf("word key %q: %w", key, ErrValidation)
	}
	return WordIdentity{Term: term, Definition: def}, nil
}

// WordPair is a WordIdentity together with its corpus/group placement in the
// bundled wordlists.
type WordPair struct {
	Term       string `json:"lithuanian"`
	Definition string `json:"english"`
	Corpus     string `json:"corpus"`
	Group      string `json:"group"`
}

func (p WordPair) Identity() WordIdentity {
	return WordIdentity{Term: p.Term, Definition: p.Definition}
}
