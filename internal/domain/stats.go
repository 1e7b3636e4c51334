package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnswerCounts is the correct/incorrect tally for one activity type.
type AnswerCounts struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

func (c AnswerCounts) Total() int { return c.Correct + c.Incorrect }

// ActivityStats is the append-only learning history for a single word. It is
// created lazily the first time the word is exposed and never deleted.
type ActivityStats struct {
	Exposed    bool                          `json:"exposed"`
	Activities map[ActivityType]AnswerCounts `json:"activities"`
	LastSeen   time.Time                     `json:"lastSeen"`
}

// NewActivityStats returns an empty record with an allocated activity map.
func NewActivityStats() ActivityStats {
	return ActivityStats{Activities: make(map[ActivityType]AnswerCounts)}
}

// Clone returns a deep copy. Listeners and read APIs always receive clones so
// a caller can never mutate store state in place.
func (s ActivityStats) Clone() ActivityStats {
	out := s
	out.Activities = make(map[ActivityType]AnswerCounts, len(s.Activities))
	for k, v := range s.Activities {
		out.Activities[k] = v
	}
	return out
}

// TotalCounts aggregates correct/incorrect across all activity types.
func (s ActivityStats) TotalCounts() AnswerCounts {
	var total AnswerCounts
	for _, c := range s.Activities {
		total.Correct += c.Correct
		total.Incorrect += c.Incorrect
	}
	return total
}

// StatsMap maps word identity to its learning history. On the wire it is a
// JSON object keyed by the legacy "term-definition" form.
type StatsMap map[WordIdentity]ActivityStats

// Clone returns a deep copy of the whole map.
func (m StatsMap) Clone() StatsMap {
	out := make(StatsMap, len(m))
	for w, s := range m {
		out[w] = s.Clone()
	}
	return out
}

func (m StatsMap) MarshalJSON() ([]byte, error) {
	wire := make(map[string]ActivityStats, len(m))
	for w, s := range m {
		wire[w.WireKey()] = s
	}
	return json.Marshal(wire)
}

func (m *StatsMap) UnmarshalJSON(data []byte) error {
	var wire map[string]ActivityStats
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(StatsMap, len(wire))
	for key, s := range wire {
		w, err := ParseWireKey(key)
		if err != nil {
			return fmt.Errorf("stats map: %w", err)
		}
		if s.Activities == nil {
			s.Activities = make(map[ActivityType]AnswerCounts)
		}
		out[w] = s
	}
	*m = out
	return nil
}
