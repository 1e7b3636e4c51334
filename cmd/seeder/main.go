// Command seeder prepares a fresh local store: it writes a default corpus
// selection derived from the built-in wordlist catalog and, on request,
// resets journey statistics. It is intended to be run offline, not as part
// of the main server.
//
// Flags:
//
//	--corpora      comma-separated corpora to enable with all their groups (default: all)
//	--reset-stats  clear journey statistics
//	--dry-run      report what would be written without touching the store
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/trakaido/trakaido-backend/internal/app"
	"github.com/trakaido/trakaido-backend/internal/config"
	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
	"github.com/trakaido/trakaido-backend/internal/storage/local"
	"github.com/trakaido/trakaido-backend/internal/wordlist"
)

func main() {
	corporaFlag := flag.String("corpora", "", "comma-separated corpora to enable (default: all)")
	resetStatsFlag := flag.Bool("reset-stats", false, "clear journey statistics")
	dryRunFlag := flag.Bool("dry-run", false, "report without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	catalog, err := wordlist.Load()
	if err != nil {
		logger.Error("load wordlist", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wanted := catalog.Corpora()
	if *corporaFlag != "" {
		wanted = strings.Split(*corporaFlag, ",")
		for i := range wanted {
			wanted[i] = strings.TrimSpace(wanted[i])
		}
	}

	choices := domain.CorpusChoices{}
	for _, corpus := range wanted {
		groups := catalog.Groups(corpus)
		if len(groups) == 0 {
			logger.Error("unknown corpus", slog.String("corpus", corpus))
			os.Exit(1)
		}
		choices[corpus] = groups
	}

	if *dryRunFlag {
		logger.Info("dry run",
			slog.Int("corpora", len(choices)),
			slog.Int("words", len(catalog.WordsForChoices(choices))),
			slog.Bool("reset_stats", *resetStatsFlag),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := local.Open(cfg.Storage.LocalPath)
	if err != nil {
		logger.Error("open local store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	raw, err := json.Marshal(choices)
	if err != nil {
		logger.Error("encode choices", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := store.Write(ctx, storage.KeyCorpusChoices, raw); err != nil {
		logger.Error("write choices", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *resetStatsFlag {
		empty, _ := json.Marshal(domain.StatsMap{})
		if err := store.Write(ctx, storage.KeyJourneyStats, empty); err != nil {
			logger.Error("reset stats", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("seed completed",
		slog.Int("corpora", len(choices)),
		slog.Int("words", len(catalog.WordsForChoices(choices))),
		slog.Bool("reset_stats", *resetStatsFlag),
	)
}
