package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	"github.com/wdm0006/worthwatch/pkg/profile"
	"github.com/wdm0006/worthwatch/pkg/repair"
)

type checkReport struct {
	Issues   repair.Issues           `json:"issues"`
	Profiles []profile.ColumnProfile `json:"profiles"`
}

// runCheck analyzes persisted tables without mutating them: issue counts for
// each repair order plus per-column profiles.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "directory holding the parquet tables")
	table := fs.String("table", "both", "billionaires, assets, or both")
	topK := fs.Int("top", 5, "top categorical values to report")
	reportPath := fs.String("report", "", "write a JSON report to this file")
	configPath := fs.String("config", "", "path to a TOML/YAML/JSON config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := resolveConfig(*configPath, Config{DataDir: *dataDir})
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 2
	}
	tables, ok := selectTables(*table)
	if !ok {
		slog.Error("invalid -table", "value", *table)
		return 2
	}

	store := dataset.NewStore(cfg.DataDir, nil)
	var reports []checkReport
	for _, name := range tables {
		f, err := store.Load(name)
		if err != nil {
			slog.Error("load failed", "table", name, "error", err)
			return 1
		}
		issues := repair.Analyze(f, name)
		collector := profile.NewCollector(f.Schema(), *topK)
		collector.ConsumeFrame(f)

		fmt.Printf("== %s (%d rows) ==\n", name, f.Rows())
		fmt.Printf("whitespace=%d unknown_tokens=%d duplicate_groups=%d duplicate_rows=%d\n",
			issues.Whitespace, issues.UnknownTokens, issues.DuplicateGroups, issues.DuplicateRows)
		for field, n := range issues.IdentityConflicts {
			fmt.Printf("identity conflicts in %s: %d people\n", field, n)
		}
		for field, n := range issues.FillableNulls {
			fmt.Printf("fillable nulls in %s: %d cells\n", field, n)
		}
		fmt.Print(collector.ReportText())

		reports = append(reports, checkReport{Issues: issues, Profiles: collector.Profiles()})
	}

	if *reportPath != "" {
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			slog.Error("report encoding failed", "error", err)
			return 1
		}
		if err := os.WriteFile(*reportPath, b, 0o644); err != nil {
			slog.Error("report write failed", "path", *reportPath, "error", err)
			return 1
		}
		slog.Info("report written", "path", *reportPath)
	}
	return 0
}

func selectTables(arg string) ([]string, bool) {
	switch arg {
	case "both", "":
		return []string{dataset.TableBillionaires, dataset.TableAssets}, true
	case dataset.TableBillionaires, dataset.TableAssets:
		return []string{arg}, true
	default:
		return nil, false
	}
}
