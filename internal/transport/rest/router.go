package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/trakaido/trakaido-backend/internal/config"
	"github.com/trakaido/trakaido-backend/internal/transport/middleware"
)

// Handlers aggregates the REST handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Stats    *StatsHandler
	Choices  *ChoicesHandler
	Journey  *JourneyHandler
	Settings *SettingsHandler
	Wordlist *WordlistHandler
	Health   *HealthHandler
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// NewRouter mounts all REST routes. Learner-data routes require a valid
// token; the wordlist catalog and health probes are public.
func NewRouter(logger *slog.Logger, corsCfg config.CORSConfig, validator tokenValidator, h Handlers) http.Handler {
	mux := http.NewServeMux()

	// Public surface.
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)
	mux.HandleFunc("POST /auth/token", h.Auth.Token)
	mux.HandleFunc("GET /api/trakaido/wordlists", h.Wordlist.List)
	mux.HandleFunc("GET /api/trakaido/wordlists/{corpus}", h.Wordlist.Corpus)

	// Learner data.
	api := http.NewServeMux()
	api.HandleFunc("GET /api/trakaido/journeystats/{$}", h.Stats.Get)
	api.HandleFunc("PUT /api/trakaido/journeystats/{$}", h.Stats.Put)
	api.HandleFunc("POST /api/trakaido/journeystats/answer", h.Stats.RecordAnswer)
	api.HandleFunc("GET /api/trakaido/journeystats/daily", h.Stats.Daily)
	api.HandleFunc("GET /api/trakaido/journeystats/weekly", h.Stats.Weekly)

	api.HandleFunc("GET /api/trakaido/corpuschoices/{$}", h.Choices.Get)
	api.HandleFunc("PUT /api/trakaido/corpuschoices/{$}", h.Choices.Put)
	api.HandleFunc("DELETE /api/trakaido/corpuschoices/{$}", h.Choices.Delete)
	api.HandleFunc("GET /api/trakaido/corpuschoices/corpus/{corpus}", h.Choices.GetCorpus)
	api.HandleFunc("POST /api/trakaido/corpuschoices/corpus", h.Choices.UpdateCorpus)

	api.HandleFunc("GET /api/trakaido/journey/next", h.Journey.Next)
	api.HandleFunc("POST /api/trakaido/journey/answer", h.Journey.Answer)
	api.HandleFunc("GET /api/trakaido/journey/universe", h.Journey.Universe)

	api.HandleFunc("GET /api/trakaido/settings/storage-mode", h.Settings.GetStorageMode)
	api.HandleFunc("PUT /api/trakaido/settings/storage-mode", h.Settings.PutStorageMode)
	api.HandleFunc("GET /api/trakaido/settings/voice", h.Settings.GetVoicePrefs)
	api.HandleFunc("PUT /api/trakaido/settings/voice", h.Settings.PutVoicePrefs)

	mux.Handle("/api/trakaido/journeystats/", middleware.RequireAuth(api))
	mux.Handle("/api/trakaido/corpuschoices/", middleware.RequireAuth(api))
	mux.Handle("/api/trakaido/journey/", middleware.RequireAuth(api))
	mux.Handle("/api/trakaido/settings/", middleware.RequireAuth(api))

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS(corsCfg),
		middleware.Auth(validator),
		middleware.Logger(logger),
	)

	return chain(mux)
}
