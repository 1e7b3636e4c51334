package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/trakaido/trakaido-backend/internal/service/journey"
)

// journeyService defines the minimal interface needed by JourneyHandler.
type journeyService interface {
	NextRound(ctx context.Context) (journey.Round, error)
	SubmitAnswer(ctx context.Context, roundID uuid.UUID, correct bool) (journey.AnswerResult, error)
	UniverseSize() int
}

// JourneyHandler serves the journey round REST endpoints.
type JourneyHandler struct {
	svc journeyService
	log *slog.Logger
}

// NewJourneyHandler creates a JourneyHandler.
func NewJourneyHandler(svc journeyService, logger *slog.Logger) *JourneyHandler {
	return &JourneyHandler{svc: svc, log: logger.With("handler", "journey")}
}

type submitAnswerRequest struct {
	RoundID string `json:"roundId"`
	Correct bool   `json:"correct"`
}

// Next handles GET /api/trakaido/journey/next: samples a word, picks an
// activity and opens a round awaiting the learner's answer.
func (h *JourneyHandler) Next(w http.ResponseWriter, r *http.Request) {
	round, err := h.svc.NextRound(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// Answer handles POST /api/trakaido/journey/answer.
func (h *JourneyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	roundID, err := uuid.Parse(req.RoundID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid roundId")
		return
	}

	result, err := h.svc.SubmitAnswer(r.Context(), roundID, req.Correct)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Universe handles GET /api/trakaido/journey/universe.
func (h *JourneyHandler) Universe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"size": h.svc.UniverseSize()})
}
