// Package journey implements the adaptive study orchestrator: it combines
// the choice store (candidate universe), the stats store (learning history)
// and the weighted selection tree into "next exercise" sampling and answer
// recording.
package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/selection"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type statsStore interface {
	WordStats(ctx context.Context, word domain.WordIdentity) (domain.ActivityStats, error)
	RecordAnswer(ctx context.Context, word domain.WordIdentity, activity domain.ActivityType, correct bool) error
	RecordExposure(ctx context.Context, word domain.WordIdentity) error
}

type choiceStore interface {
	AllChoices(ctx context.Context) (domain.CorpusChoices, error)
}

type catalog interface {
	WordsForChoices(choices domain.CorpusChoices) []domain.WordPair
}

// ---------------------------------------------------------------------------
// Rounds
// ---------------------------------------------------------------------------

// Round is one sampled exercise awaiting the learner's answer.
type Round struct {
	ID       uuid.UUID           `json:"roundId"`
	Word     domain.WordPair     `json:"word"`
	Activity domain.ActivityType `json:"activity"`
}

// AnswerResult reports the outcome of recording an answer.
type AnswerResult struct {
	Word      domain.WordIdentity  `json:"word"`
	Activity  domain.ActivityType  `json:"activity"`
	Correct   bool                 `json:"correct"`
	Stats     domain.ActivityStats `json:"stats"`
	NewWeight float64              `json:"newWeight"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service owns the selection tree and the single in-flight round. All state
// is guarded by one mutex: tree mutations are strictly single-writer.
type Service struct {
	mu      sync.Mutex
	stats   statsStore
	choices choiceStore
	catalog catalog
	policy  selection.WeightPolicy
	tree    *selection.Tree
	log     *slog.Logger
	rng     *rand.Rand
	now     func() time.Time

	universe []domain.WordPair
	stale    bool

	state   domain.RoundState
	current Round

	activityWeights map[domain.ActivityType]float64
}

// NewService creates the journey orchestrator. The universe is built lazily
// on the first NextRound call.
func NewService(logger *slog.Logger, stats statsStore, choices choiceStore, cat catalog, policy selection.WeightPolicy) *Service {
	return &Service{
		stats:   stats,
		choices: choices,
		catalog: cat,
		policy:  policy,
		tree:    selection.New(),
		log:     logger.With("component", "journey"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		stale:   true,
		state:   domain.RoundStateIdle,
		activityWeights: map[domain.ActivityType]float64{
			domain.ActivityMultipleChoice: 3,
			domain.ActivityTyping:         2,
			domain.ActivityListeningEasy:  2,
			domain.ActivityListeningHard:  1,
			domain.ActivityBlitz:          1,
		},
	}
}

// InvalidateUniverse marks the selection universe stale. Wired to choice
// store listeners and to storage-mode switches; the next NextRound call
// rebuilds the tree wholesale.
func (s *Service) InvalidateUniverse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// UniverseSize returns the current candidate count (0 until first build).
func (s *Service) UniverseSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.universe)
}

// NextRound samples the next word and activity. An unanswered previous round
// is abandoned. Returns domain.ErrNoCandidates when the learner has selected
// no study groups.
func (s *Service) NextRound(ctx context.Context) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.RoundStateAwaitingAnswer {
		s.log.Debug("abandoning unanswered round", slog.String("round_id", s.current.ID.String()))
	}
	s.state = domain.RoundStateSampling

	if err := s.rebuildLocked(ctx); err != nil {
		s.state = domain.RoundStateIdle
		return Round{}, err
	}
	if len(s.universe) == 0 {
		s.state = domain.RoundStateIdle
		return Round{}, domain.ErrNoCandidates
	}

	index, err := s.drawLocked()
	if err != nil {
		s.state = domain.RoundStateIdle
		return Round{}, err
	}
	pair := s.universe[index-1]

	if err := s.stats.RecordExposure(ctx, pair.Identity()); err != nil {
		s.state = domain.RoundStateIdle
		return Round{}, fmt.Errorf("journey: record exposure: %w", err)
	}

	s.current = Round{
		ID:       uuid.New(),
		Word:     pair,
		Activity: s.chooseActivityLocked(),
	}
	s.state = domain.RoundStateAwaitingAnswer

	s.log.Info("round sampled",
		slog.String("round_id", s.current.ID.String()),
		slog.String("word", pair.Identity().String()),
		slog.String("activity", s.current.Activity.String()),
	)
	return s.current, nil
}

// SubmitAnswer records the learner's answer for the round. Each round
// accepts exactly one answer: a second submission, or an unknown round ID,
// is rejected with domain.ErrConflict.
func (s *Service) SubmitAnswer(ctx context.Context, roundID uuid.UUID, correct bool) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.RoundStateAwaitingAnswer || roundID != s.current.ID {
		return AnswerResult{}, fmt.Errorf("journey: round %s not awaiting answer: %w", roundID, domain.ErrConflict)
	}
	s.state = domain.RoundStateRecording

	round := s.current
	word := round.Word.Identity()

	if err := s.stats.RecordAnswer(ctx, word, round.Activity, correct); err != nil {
		// Recording failed before any state changed; the round stays open
		// for a retry.
		s.state = domain.RoundStateAwaitingAnswer
		return AnswerResult{}, fmt.Errorf("journey: record answer: %w", err)
	}

	record, err := s.stats.WordStats(ctx, word)
	if err != nil {
		record = domain.NewActivityStats()
	}

	// Reweight just this word; a full rebuild is reserved for universe
	// changes.
	weight := s.policy.ComputeWeight(record, s.now())
	if index, err := s.tree.WordIndex(word); err == nil {
		if err := s.tree.UpdateWeight(index, weight); err != nil {
			s.log.Error("weight update failed", slog.Any("error", err))
		}
	}

	s.state = domain.RoundStateIdle
	s.current = Round{}

	return AnswerResult{
		Word:      word,
		Activity:  round.Activity,
		Correct:   correct,
		Stats:     record,
		NewWeight: weight,
	}, nil
}

// State returns the current round state (for observability).
func (s *Service) State() domain.RoundState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// rebuildLocked refreshes the universe and repopulates the tree when stale.
// The old universe is discarded wholesale; there is no incremental diffing
// across selection changes.
func (s *Service) rebuildLocked(ctx context.Context) error {
	if !s.stale {
		return nil
	}

	choices, err := s.choices.AllChoices(ctx)
	if err != nil {
		return fmt.Errorf("journey: load choices: %w", err)
	}
	universe := s.catalog.WordsForChoices(choices)

	s.tree.Clear()
	if err := s.tree.Resize(len(universe)); err != nil {
		return fmt.Errorf("journey: resize tree: %w", err)
	}

	for i, pair := range universe {
		word := pair.Identity()
		record, err := s.stats.WordStats(ctx, word)
		if err != nil {
			record = domain.NewActivityStats()
		}
		if err := s.tree.SetWord(i+1, word); err != nil {
			return fmt.Errorf("journey: populate tree: %w", err)
		}
		if err := s.tree.UpdateWeight(i+1, s.policy.ComputeWeight(record, s.now())); err != nil {
			return fmt.Errorf("journey: populate tree: %w", err)
		}
	}

	s.universe = universe
	s.stale = false

	s.log.Info("universe rebuilt",
		slog.Int("words", len(universe)),
		slog.Float64("total_weight", s.tree.TotalWeight()),
	)
	return nil
}

// drawLocked samples one slot: weighted when mass exists, uniform when the
// whole universe has zero weight.
func (s *Service) drawLocked() (int, error) {
	total := s.tree.TotalWeight()
	if total <= 0 {
		return s.rng.Intn(len(s.universe)) + 1, nil
	}

	// (1 - rng.Float64()) is in (0, 1], so the target lands in (0, total].
	target := total * (1 - s.rng.Float64())
	index, err := s.tree.SelectByWeight(target)
	if err != nil {
		return 0, fmt.Errorf("journey: draw: %w", err)
	}
	return index, nil
}

func (s *Service) chooseActivityLocked() domain.ActivityType {
	total := 0.0
	for _, a := range domain.AnswerableActivities() {
		total += s.activityWeights[a]
	}
	if total <= 0 {
		return domain.ActivityMultipleChoice
	}

	target := total * (1 - s.rng.Float64())
	for _, a := range domain.AnswerableActivities() {
		target -= s.activityWeights[a]
		if target <= 0 {
			return a
		}
	}
	return domain.ActivityMultipleChoice
}

// IsExpectedEmpty reports whether err is the expected "nothing to study"
// state rather than a failure.
func IsExpectedEmpty(err error) bool {
	return errors.Is(err, domain.ErrNoCandidates)
}
