package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/service/stats"
)

// statsService defines the minimal interface needed by StatsHandler.
type statsService interface {
	AllStats(ctx context.Context) (domain.StatsMap, error)
	SetAllStats(ctx context.Context, stats domain.StatsMap) error
	RecordAnswer(ctx context.Context, word domain.WordIdentity, activity domain.ActivityType, correct bool) error
	DailyProgress() stats.ProgressReport
	WeeklyProgress() stats.ProgressReport
}

// StatsHandler serves the journey statistics REST endpoints.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "journeystats")}
}

// statsEnvelope is the wire shape shared with the remote persistence API.
type statsEnvelope struct {
	Stats domain.StatsMap `json:"stats"`
}

type recordAnswerRequest struct {
	Word     domain.WordIdentity `json:"word"`
	Activity string              `json:"activity"`
	Correct  bool                `json:"correct"`
}

// Get handles GET /api/trakaido/journeystats/.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.AllStats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, statsEnvelope{Stats: all})
}

// Put handles PUT /api/trakaido/journeystats/ (bulk replace).
func (h *StatsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req statsEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stats == nil {
		req.Stats = domain.StatsMap{}
	}

	if err := h.svc.SetAllStats(r.Context(), req.Stats); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}

// RecordAnswer handles POST /api/trakaido/journeystats/answer for clients
// that record directly instead of driving a journey round.
func (h *StatsHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req recordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.RecordAnswer(r.Context(), req.Word, domain.ActivityType(req.Activity), req.Correct); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}

// Daily handles GET /api/trakaido/journeystats/daily.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.DailyProgress())
}

// Weekly handles GET /api/trakaido/journeystats/weekly.
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.WeeklyProgress())
}
