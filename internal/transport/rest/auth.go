package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/trakaido/trakaido-backend/internal/auth"
)

// AuthHandler issues access tokens for the single configured learner.
type AuthHandler struct {
	jwt          *auth.JWTManager
	passwordHash string
	learnerID    uuid.UUID
	log          *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwt *auth.JWTManager, passwordHash string, learnerID uuid.UUID, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		jwt:          jwt,
		passwordHash: passwordHash,
		learnerID:    learnerID,
		log:          logger.With("handler", "auth"),
	}
}

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Token handles POST /auth/token. When no password hash is configured the
// instance is open and any request gets a token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.passwordHash != "" {
		if err := auth.VerifyPassword(h.passwordHash, req.Password); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	token, err := h.jwt.GenerateAccessToken(h.learnerID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
