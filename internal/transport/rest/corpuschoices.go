package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// choicesService defines the minimal interface needed by ChoicesHandler.
type choicesService interface {
	AllChoices(ctx context.Context) (domain.CorpusChoices, error)
	CorpusChoices(ctx context.Context, corpus string) ([]string, error)
	UpdateCorpusChoices(ctx context.Context, corpus string, groups []string) error
	SetAllChoices(ctx context.Context, choices domain.CorpusChoices) error
	ClearAllChoices(ctx context.Context) error
}

// ChoicesHandler serves the corpus-choice REST endpoints.
type ChoicesHandler struct {
	svc choicesService
	log *slog.Logger
}

// NewChoicesHandler creates a ChoicesHandler.
func NewChoicesHandler(svc choicesService, logger *slog.Logger) *ChoicesHandler {
	return &ChoicesHandler{svc: svc, log: logger.With("handler", "corpuschoices")}
}

// choicesEnvelope is the wire shape shared with the remote persistence API.
type choicesEnvelope struct {
	Choices domain.CorpusChoices `json:"choices"`
}

type updateCorpusRequest struct {
	Corpus string   `json:"corpus"`
	Groups []string `json:"groups"`
}

// Get handles GET /api/trakaido/corpuschoices/.
func (h *ChoicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.AllChoices(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, choicesEnvelope{Choices: all})
}

// Put handles PUT /api/trakaido/corpuschoices/ (bulk replace).
func (h *ChoicesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req choicesEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Choices == nil {
		req.Choices = domain.CorpusChoices{}
	}

	if err := h.svc.SetAllChoices(r.Context(), req.Choices); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}

// Delete handles DELETE /api/trakaido/corpuschoices/.
func (h *ChoicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAllChoices(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}

// GetCorpus handles GET /api/trakaido/corpuschoices/corpus/{corpus}.
func (h *ChoicesHandler) GetCorpus(w http.ResponseWriter, r *http.Request) {
	corpus := r.PathValue("corpus")
	groups, err := h.svc.CorpusChoices(r.Context(), corpus)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"corpus": corpus, "groups": groups})
}

// UpdateCorpus handles POST /api/trakaido/corpuschoices/corpus with the
// corpus named in the body. An empty groups list removes the corpus from the
// selection.
func (h *ChoicesHandler) UpdateCorpus(w http.ResponseWriter, r *http.Request) {
	var req updateCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.UpdateCorpusChoices(r.Context(), req.Corpus, req.Groups); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}
