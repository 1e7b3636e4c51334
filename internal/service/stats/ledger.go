package stats

import (
	"sync"
	"time"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// ProgressReport is the per-activity tally over a rolling window, serving the
// journeystats daily/weekly dashboard endpoints. CurrentDay is the report
// date in ISO form so clients can detect a window rollover.
type ProgressReport struct {
	CurrentDay string                                      `json:"currentDay"`
	Progress   map[domain.ActivityType]domain.AnswerCounts `json:"progress"`
	Total      domain.AnswerCounts                         `json:"total"`
}

type ledgerEntry struct {
	activity domain.ActivityType
	correct  bool
	at       time.Time
}

// activityLedger is an in-process rolling log of recorded answers. It backs
// the daily/weekly reports only; the durable per-word history lives in the
// stats map. Entries older than the widest report window are pruned on write.
type activityLedger struct {
	mu      sync.Mutex
	entries []ledgerEntry
}

const ledgerRetention = 7 * 24 * time.Hour

func newActivityLedger() *activityLedger {
	return &activityLedger{}
}

func (l *activityLedger) record(activity domain.ActivityType, correct bool, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := at.Add(-ledgerRetention)
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	l.entries = append(kept, ledgerEntry{activity: activity, correct: correct, at: at})
}

func (l *activityLedger) report(now time.Time, window time.Duration) ProgressReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	report := ProgressReport{
		CurrentDay: now.Format("2006-01-02"),
		Progress:   make(map[domain.ActivityType]domain.AnswerCounts),
	}
	cutoff := now.Add(-window)
	for _, e := range l.entries {
		if !e.at.After(cutoff) {
			continue
		}
		counts := report.Progress[e.activity]
		if e.correct {
			counts.Correct++
			report.Total.Correct++
		} else {
			counts.Incorrect++
			report.Total.Incorrect++
		}
		report.Progress[e.activity] = counts
	}
	return report
}
