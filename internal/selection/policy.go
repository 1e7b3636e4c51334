package selection

import (
	"time"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// WeightPolicy maps a word's learning history to non-negative sampling mass.
// The journey service treats it as an opaque strategy so tuning never touches
// the tree or the stores.
type WeightPolicy interface {
	ComputeWeight(record domain.ActivityStats, now time.Time) float64
}

// PolicyConfig holds the tunables of the default policy.
type PolicyConfig struct {
	// UnseenWeight is assigned to words the learner has never been shown.
	UnseenWeight float64
	// BaseWeight is the starting mass for exposed words.
	BaseWeight float64
	// IncorrectBoost is added per recorded incorrect answer.
	IncorrectBoost float64
	// CorrectDamping divides the weight once per recorded correct answer.
	CorrectDamping float64
	// RecencyWindow elevates words not seen within the window.
	RecencyWindow time.Duration
	// StaleBoost multiplies the weight of words outside the recency window.
	StaleBoost float64
	// MinWeight is the floor for any exposed word, so well-known words stay
	// sampleable at a low rate rather than vanishing.
	MinWeight float64
}

// DefaultPolicyConfig returns the tuning used in production.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		UnseenWeight:   10,
		BaseWeight:     4,
		IncorrectBoost: 3,
		CorrectDamping: 1.35,
		RecencyWindow:  24 * time.Hour,
		StaleBoost:     1.5,
		MinWeight:      0.25,
	}
}

// HistoryPolicy is the default WeightPolicy: unseen words get high weight,
// words with incorrect answers get elevated weight, words answered correctly
// many times decay toward MinWeight. Pure calculation, no side effects.
type HistoryPolicy struct {
	cfg PolicyConfig
}

// NewHistoryPolicy creates the default policy with the given tuning.
func NewHistoryPolicy(cfg PolicyConfig) *HistoryPolicy {
	return &HistoryPolicy{cfg: cfg}
}

func (p *HistoryPolicy) ComputeWeight(record domain.ActivityStats, now time.Time) float64 {
	if !record.Exposed {
		return p.cfg.UnseenWeight
	}

	total := record.TotalCounts()

	weight := p.cfg.BaseWeight + float64(total.Incorrect)*p.cfg.IncorrectBoost
	for i := 0; i < total.Correct; i++ {
		weight /= p.cfg.CorrectDamping
	}

	if p.cfg.RecencyWindow > 0 && now.Sub(record.LastSeen) > p.cfg.RecencyWindow {
		weight *= p.cfg.StaleBoost
	}

	if weight < p.cfg.MinWeight {
		weight = p.cfg.MinWeight
	}
	return weight
}
