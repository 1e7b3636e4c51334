package rest

import (
	"log/slog"
	"net/http"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/wordlist"
)

// WordlistHandler serves the built-in vocabulary catalog.
type WordlistHandler struct {
	catalog *wordlist.Catalog
	log     *slog.Logger
}

// NewWordlistHandler creates a WordlistHandler.
func NewWordlistHandler(catalog *wordlist.Catalog, logger *slog.Logger) *WordlistHandler {
	return &WordlistHandler{catalog: catalog, log: logger.With("handler", "wordlists")}
}

type corpusInfo struct {
	Corpus string   `json:"corpus"`
	Groups []string `json:"groups"`
}

// List handles GET /api/trakaido/wordlists: corpora and their groups.
func (h *WordlistHandler) List(w http.ResponseWriter, r *http.Request) {
	corpora := h.catalog.Corpora()
	out := make([]corpusInfo, 0, len(corpora))
	for _, c := range corpora {
		out = append(out, corpusInfo{Corpus: c, Groups: h.catalog.Groups(c)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"corpora": out})
}

// Corpus handles GET /api/trakaido/wordlists/{corpus}: all words in one
// corpus, grouped.
func (h *WordlistHandler) Corpus(w http.ResponseWriter, r *http.Request) {
	corpus := r.PathValue("corpus")
	groups := h.catalog.Groups(corpus)
	if len(groups) == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	choices := domain.CorpusChoices{corpus: groups}
	writeJSON(w, http.StatusOK, map[string]any{
		"corpus": corpus,
		"words":  h.catalog.WordsForChoices(choices),
	})
}
