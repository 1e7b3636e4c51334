// Package selection implements the weighted random word sampler that drives
// Journey Mode: a Fenwick (binary indexed) tree over a fixed universe of
// words, supporting point weight updates and cumulative-weight lookup in
// O(log n).
package selection

import (
	"fmt"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// Tree maps a fixed universe of words to non-negative weights. Slots are
// 1-indexed, matching the Fenwick parent arithmetic; the word backing array is
// 0-indexed and the off-by-one translation is hidden behind SetWord/Word.
//
// The tree performs no I/O and holds no locks. Callers that mutate it from
// more than one goroutine must serialize access themselves.
type Tree struct {
	size        int
	tree        []float64
	words       []domain.WordIdentity
	wordToIndex map[domain.WordIdentity]int
}

// New returns an empty tree. Call Resize before populating it.
func New() *Tree {
	t := &Tree{}
	t.Resize(0)
	return t
}

// Resize sets the universe size. Calling it with the current size is a no-op;
// any other value discards all weight and word state and allocates fresh
// zero-weight slots. Callers must re-populate after a real resize.
func (t *Tree) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("selection: resize to %d: %w", n, domain.ErrValidation)
	}
	if n == t.size && t.tree != nil {
		return nil
	}
	t.size = n
	t.tree = make([]float64, n+1)
	t.words = make([]domain.WordIdentity, n)
	t.wordToIndex = make(map[domain.WordIdentity]int, n)
	return nil
}

// Clear resets the tree to the empty state.
func (t *Tree) Clear() {
	t.size = 0
	t.tree = make([]float64, 1)
	t.words = nil
	t.wordToIndex = make(map[domain.WordIdentity]int)
}

// Size returns the number of slots.
func (t *Tree) Size() int { return t.size }

// SetWord stores word at the given 1-indexed slot and records the inverse
// mapping.
func (t *Tree) SetWord(index int, word domain.WordIdentity) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.words[index-1] = word
	t.wordToIndex[word] = index
	return nil
}

// Word returns the word stored at the given slot.
func (t *Tree) Word(index int) (domain.WordIdentity, error) {
	if err := t.checkIndex(index); err != nil {
		return domain.WordIdentity{}, err
	}
	return t.words[index-1], nil
}

// WordIndex returns the slot holding word, or domain.ErrNotFound.
func (t *Tree) WordIndex(word domain.WordIdentity) (int, error) {
	index, ok := t.wordToIndex[word]
	if !ok {
		return 0, fmt.Errorf("selection: word %s: %w", word, domain.ErrNotFound)
	}
	return index, nil
}

// UpdateWeight sets the weight of one slot. Weights are sampling probability
// mass and must be non-negative. O(log n).
func (t *Tree) UpdateWeight(index int, weight float64) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if weight < 0 {
		return fmt.Errorf("selection: negative weight %v at index %d: %w", weight, index, domain.ErrValidation)
	}
	delta := weight - t.weightAt(index)
	for i := index; i <= t.size; i += i & -i {
		t.tree[i] += delta
	}
	return nil
}

// Weight returns the current weight of one slot.
func (t *Tree) Weight(index int) (float64, error) {
	if err := t.checkIndex(index); err != nil {
		return 0, err
	}
	return t.weightAt(index), nil
}

func (t *Tree) weightAt(index int) float64 {
	// The index==1 branch is redundant (prefixSum(0) is always 0) but kept
	// explicit to mirror the prefix-delta definition.
	if index == 1 {
		return t.tree[1]
	}
	return t.prefixSum(index) - t.prefixSum(index-1)
}

// PrefixSum returns the sum of weights of slots 1..index. PrefixSum(0) is 0.
func (t *Tree) PrefixSum(index int) (float64, error) {
	if index < 0 || index > t.size {
		return 0, fmt.Errorf("selection: prefix index %d out of range [0,%d]: %w", index, t.size, domain.ErrValidation)
	}
	return t.prefixSum(index), nil
}

func (t *Tree) prefixSum(index int) float64 {
	sum := 0.0
	for i := index; i > 0; i -= i & -i {
		sum += t.tree[i]
	}
	return sum
}

// TotalWeight returns the sum of all live weights.
func (t *Tree) TotalWeight() float64 {
	return t.prefixSum(t.size)
}

// SelectByWeight returns the smallest slot index whose prefix sum reaches
// target. The caller draws target uniformly in (0, TotalWeight]; the tree
// itself generates no randomness. If the total weight is zero the result
// degenerates to slot 1 and is meaningless, so callers must guard against
// all-zero universes before drawing.
func (t *Tree) SelectByWeight(target float64) (int, error) {
	if t.size == 0 {
		return 0, fmt.Errorf("selection: empty tree: %w", domain.ErrNoCandidates)
	}
	left, right := 1, t.size
	for left < right {
		mid := (left + right) / 2
		if t.prefixSum(mid) >= target {
			right = mid
		} else {
			left = mid + 1
		}
	}
	return left, nil
}

func (t *Tree) checkIndex(index int) error {
	if index < 1 || index > t.size {
		return fmt.Errorf("selection: index %d out of range [1,%d]: %w", index, t.size, domain.ErrValidation)
	}
	return nil
}
