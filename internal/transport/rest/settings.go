package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/service/settings"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

// settingsService defines the minimal interface needed by SettingsHandler.
type settingsService interface {
	Mode() domain.StorageMode
	SwitchMode(ctx context.Context, target domain.StorageMode) (settings.SwitchResult, error)
}

// SettingsHandler serves the storage-mode and preference REST endpoints.
// Voice preferences are an opaque JSON blob held in the local store; they do
// not migrate with the storage mode.
type SettingsHandler struct {
	svc   settingsService
	prefs storage.KeyValueStore
	log   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc settingsService, prefs storage.KeyValueStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, prefs: prefs, log: logger.With("handler", "settings")}
}

type switchModeRequest struct {
	Mode string `json:"mode"`
}

// GetStorageMode handles GET /api/trakaido/settings/storage-mode.
func (h *SettingsHandler) GetStorageMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"mode": h.svc.Mode().String()})
}

// PutStorageMode handles PUT /api/trakaido/settings/storage-mode.
func (h *SettingsHandler) PutStorageMode(w http.ResponseWriter, r *http.Request) {
	var req switchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SwitchMode(r.Context(), domain.StorageMode(req.Mode))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetVoicePrefs handles GET /api/trakaido/settings/voice. An unset blob reads
// as an empty object.
func (h *SettingsHandler) GetVoicePrefs(w http.ResponseWriter, r *http.Request) {
	raw, err := h.prefs.Read(r.Context(), storage.KeyVoicePrefs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			raw = []byte("{}")
		} else {
			handleError(w, r, h.log, err)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw) //nolint:errcheck
}

// PutVoicePrefs handles PUT /api/trakaido/settings/voice. The body is stored
// verbatim as long as it is valid JSON.
func (h *SettingsHandler) PutVoicePrefs(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !json.Valid(raw) {
		writeError(w, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	if err := h.prefs.Write(r.Context(), storage.KeyVoicePrefs, raw); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeSuccess(w)
}
