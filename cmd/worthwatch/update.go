package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	"github.com/wdm0006/worthwatch/pkg/forbes"
)

// runUpdate is the daily path: fetch the live listing, build both tables for
// the snapshot date, and merge them into the store. A failure at any point
// leaves both persisted tables exactly as they were.
func runUpdate(args []string) int {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "directory holding the parquet tables")
	dateStr := fs.String("date", "", "snapshot date as YYYYMMDD (default: today, for backfills)")
	userAgent := fs.String("user-agent", "", "override the upstream request user agent")
	timeout := fs.Int("timeout", 0, "fetch timeout in seconds")
	dryRun := fs.Bool("dry-run", false, "fetch and transform, report counts, write nothing")
	configPath := fs.String("config", "", "path to a TOML/YAML/JSON config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := resolveConfig(*configPath, Config{DataDir: *dataDir, UserAgent: *userAgent, Timeout: *timeout})
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 2
	}

	day := time.Now().UTC()
	if *dateStr != "" {
		day, err = time.Parse("20060102", *dateStr)
		if err != nil {
			slog.Error("invalid -date, want YYYYMMDD", "value", *dateStr)
			return 2
		}
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	logger := slog.Default().With("run", uuid.NewString()[:8], "date", day.Format("2006-01-02"))

	client := forbes.NewClient(forbes.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Endpoints: cfg.Endpoints,
	})
	records, err := client.Fetch(context.Background())
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return 1
	}
	logger.Info("fetched listing", "records", len(records))

	people, err := dataset.BuildBillionaires(records, day)
	if err != nil {
		logger.Error("transform failed", "table", dataset.TableBillionaires, "error", err)
		return 1
	}
	assets, err := dataset.BuildAssets(records, day)
	if err != nil {
		logger.Error("transform failed", "table", dataset.TableAssets, "error", err)
		return 1
	}
	if *dryRun {
		logger.Info("dry run, nothing written",
			"billionaires", people.Rows(), "assets", assets.Rows())
		return 0
	}

	store := dataset.NewStore(cfg.DataDir, logger)
	if err := store.Upsert(dataset.TableBillionaires, people, day); err != nil {
		logger.Error("store failed", "error", err)
		return 1
	}
	if err := store.Upsert(dataset.TableAssets, assets, day); err != nil {
		logger.Error("store failed", "error", err)
		return 1
	}
	return 0
}
