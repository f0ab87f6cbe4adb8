// Command import warms the run cache from a JSON file of queries.
//
// Usage:
//
//	go run ./cmd/import -json data/warm_queries.json -db data/perpetual.db
//
// This tool:
// 1. Parses the query file
// 2. Creates/opens the SQLite database and runs migrations
// 3. Simulates every query that is not cached yet and stores the result
//
// Running it twice is cheap: cached queries are skipped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
	"github.com/zapponejosh/perpetual-calendar/internal/database"
)

// ImportData is the layout of the query file.
type ImportData struct {
	Queries []calendar.Query `json:"queries"`
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Simulated int
	Skipped   int
	Rejected  int
	Days      int
	Matches   int
}

func main() {
	jsonPath := flag.String("json", "data/warm_queries.json", "Path to query JSON file")
	dbPath := flag.String("db", "data/perpetual.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *jsonPath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(ctx context.Context, jsonPath, dbPath string, logger *slog.Logger) error {
	startTime := time.Now()

	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var importData ImportData
	if err := json.Unmarshal(data, &importData); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	logger.Info("parsed JSON", slog.Int("queries", len(importData.Queries)))

	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	var stats ImportStats
	if err := importQueries(ctx, db, importData.Queries, logger, &stats); err != nil {
		return fmt.Errorf("import queries: %w", err)
	}

	runs, occurrences, err := db.CountRuns(ctx)
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}

	elapsed := time.Since(startTime)
	logger.Info("import verified",
		slog.Int("cached_runs", runs),
		slog.Int("cached_occurrences", occurrences),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Queries simulated:   %d\n", stats.Simulated)
	fmt.Printf("Already cached:      %d\n", stats.Skipped)
	fmt.Printf("Rejected:            %d\n", stats.Rejected)
	fmt.Printf("Days simulated:      %d\n", stats.Days)
	fmt.Printf("Matches stored:      %d\n", stats.Matches)
	fmt.Printf("Runs in cache:       %d\n", runs)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// importQueries simulates and stores every query that is not cached yet.
// Illegal queries are logged and counted, not fatal.
func importQueries(ctx context.Context, db *database.DB, queries []calendar.Query, logger *slog.Logger, stats *ImportStats) error {
	for i, q := range queries {
		if err := calendar.Validate(q); err != nil {
			logger.Warn("rejecting query", slog.Int("index", i), slog.Any("error", err))
			stats.Rejected++
			continue
		}

		if _, err := db.GetRun(ctx, q); err == nil {
			stats.Skipped++
			continue
		} else if !database.IsNotFound(err) {
			return fmt.Errorf("look up query %d: %w", i+1, err)
		}

		run := &database.Run{Query: q, Matches: make([]calendar.Match, 0)}
		s, err := calendar.RunContext(ctx, q, func(m calendar.Match) {
			run.Matches = append(run.Matches, m)
		})
		if err != nil {
			return fmt.Errorf("simulate query %d: %w", i+1, err)
		}
		run.Stats = s

		if err := db.SaveRun(ctx, run); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("save query %d: %w", i+1, err)
		}

		stats.Simulated++
		stats.Days += s.Days
		stats.Matches += s.Matches

		logger.Debug("query cached",
			slog.Int("index", i+1),
			slog.Int("total", len(queries)),
			slog.Int("days", s.Days),
			slog.Int("matches", s.Matches),
		)
	}

	return nil
}
