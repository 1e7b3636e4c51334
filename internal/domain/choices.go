package domain

// CorpusChoices maps a corpus name to the vocabulary groups the learner has
// opted to study within it. Absence of a corpus means nothing is selected
// there, which is the default state.
type CorpusChoices map[string][]string

// Clone returns a deep copy.
func (c CorpusChoices) Clone() CorpusChoices {
	out := make(CorpusChoices, len(c))
	for corpus, groups := range c {
		cp := make([]string, len(groups))
		copy(cp, groups)
		out[corpus] = cp
	}
	return out
}

// Groups returns the selected groups for a corpus. An unknown corpus yields
// an empty list, never an error.
func (c CorpusChoices) Groups(corpus string) []string {
	groups, ok := c[corpus]
	if !ok {
		return []string{}
	}
	cp := make([]string, len(groups))
	copy(cp, groups)
	return cp
}

// HasGroup reports whether the given corpus/group pair is selected.
func (c CorpusChoices) HasGroup(corpus, group string) bool {
	for _, g := range c[corpus] {
		if g == group {
			return true
		}
	}
	return false
}
