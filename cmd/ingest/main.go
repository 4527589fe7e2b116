// Command ingest loads a JSON file of corrections and vocabulary items and
// generates study cards for a user directly against the database. Intended
// for backfills and local development.
//
// Usage:
//
//	ingest -user <uuid> -file sources.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres"
	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres/card"
	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres/reviewlog"
	"github.com/fluentdeck/fluentdeck-backend/internal/app"
	"github.com/fluentdeck/fluentdeck-backend/internal/config"
	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/internal/service/study"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// sourceFile mirrors the ingest API payload.
type sourceFile struct {
	Corrections []correctionEntry `json:"corrections"`
	Vocabulary  []vocabularyEntry `json:"vocabulary"`
}

type correctionEntry struct {
	ID          string    `json:"id"`
	Incorrect   string    `json:"incorrect"`
	Corrected   string    `json:"corrected"`
	Explanation string    `json:"explanation"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Timestamp   time.Time `json:"timestamp"`
}

type vocabularyEntry struct {
	Word          string     `json:"word"`
	Meaning       string     `json:"meaning"`
	Confidence    int        `json:"confidence"`
	LastPracticed *time.Time `json:"lastPracticed"`
	Source        string     `json:"source"`
}

func main() {
	var (
		userFlag = flag.String("user", "", "user UUID to ingest for (required)")
		fileFlag = flag.String("file", "", "path to JSON source file (required)")
	)
	flag.Parse()

	if err := run(*userFlag, *fileFlag); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(userRaw, path string) error {
	if userRaw == "" || path == "" {
		flag.Usage()
		return fmt.Errorf("both -user and -file are required")
	}

	userID, err := uuid.Parse(userRaw)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	var src sourceFile
	if err := json.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("parse source file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	svc := study.NewService(log, card.New(pool), reviewlog.New(pool), postgres.NewTxManager(pool))

	input := study.IngestInput{}
	for _, c := range src.Corrections {
		input.Corrections = append(input.Corrections, domain.Correction{
			ID:          c.ID,
			Incorrect:   c.Incorrect,
			Corrected:   c.Corrected,
			Explanation: c.Explanation,
			Category:    c.Category,
			Difficulty:  domain.Difficulty(c.Difficulty),
			CreatedAt:   c.Timestamp,
		})
	}
	for _, v := range src.Vocabulary {
		input.Vocabulary = append(input.Vocabulary, domain.VocabularyItem{
			Word:            v.Word,
			Meaning:         v.Meaning,
			Confidence:      v.Confidence,
			LastPracticedAt: v.LastPracticed,
			Source:          v.Source,
		})
	}

	result, err := svc.IngestSources(ctxutil.WithUserID(ctx, userID), input)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	log.Info("ingest finished",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", result.Skipped),
		slog.Int("rejected", len(result.Errors)),
	)
	for _, e := range result.Errors {
		log.Warn("source rejected",
			slog.String("source_type", string(e.Ref.Type)),
			slog.String("source_id", e.Ref.ID),
			slog.String("reason", e.Err.Error()),
		)
	}
	return nil
}
