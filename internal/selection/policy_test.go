package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

func TestHistoryPolicy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := NewHistoryPolicy(DefaultPolicyConfig())

	record := func(correct, incorrect int, seen time.Time) domain.ActivityStats {
		rec := domain.NewActivityStats()
		rec.Exposed = true
		rec.LastSeen = seen
		rec.Activities[domain.ActivityTyping] = domain.AnswerCounts{Correct: correct, Incorrect: incorrect}
		return rec
	}

	unseen := policy.ComputeWeight(domain.NewActivityStats(), now)
	fresh := policy.ComputeWeight(record(0, 0, now), now)
	wrong := policy.ComputeWeight(record(0, 3, now), now)
	mastered := policy.ComputeWeight(record(20, 0, now), now)
	stale := policy.ComputeWeight(record(2, 0, now.Add(-48*time.Hour)), now)
	recent := policy.ComputeWeight(record(2, 0, now), now)

	// Unseen words dominate everything exposed.
	assert.Greater(t, unseen, fresh)
	assert.Greater(t, unseen, wrong)

	// Incorrect answers elevate; correct answers decay.
	assert.Greater(t, wrong, fresh)
	assert.Less(t, mastered, fresh)

	// Words outside the recency window are boosted over recently seen ones.
	assert.Greater(t, stale, recent)

	// Decay bottoms out at the floor so nothing becomes unsampleable.
	assert.Equal(t, DefaultPolicyConfig().MinWeight, mastered)
	assert.GreaterOrEqual(t, mastered, 0.0)
}

func TestHistoryPolicyNeverNegative(t *testing.T) {
	policy := NewHistoryPolicy(PolicyConfig{
		UnseenWeight:   0,
		BaseWeight:     0,
		CorrectDamping: 2,
		MinWeight:      0,
	})
	rec := domain.NewActivityStats()
	rec.Exposed = true
	rec.Activities[domain.ActivityBlitz] = domain.AnswerCounts{Correct: 50}

	assert.GreaterOrEqual(t, policy.ComputeWeight(rec, time.Now()), 0.0)
}
