package main

import (
	"flag"
	"log/slog"
	"time"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	"github.com/wdm0006/worthwatch/pkg/io/csvio"
	"github.com/wdm0006/worthwatch/pkg/io/jsonlio"
)

// runExport renders one table to CSV or JSONL for tools that don't read
// parquet. A .gz output path compresses transparently.
func runExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "directory holding the parquet tables")
	table := fs.String("table", "", "billionaires or assets (required)")
	format := fs.String("format", "csv", "csv or jsonl")
	out := fs.String("out", "", "output path (default <table>.<format>, .gz supported)")
	dateStr := fs.String("date", "", "only export this snapshot date (YYYYMMDD)")
	configPath := fs.String("config", "", "path to a TOML/YAML/JSON config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := resolveConfig(*configPath, Config{DataDir: *dataDir})
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 2
	}
	if *table != dataset.TableBillionaires && *table != dataset.TableAssets {
		slog.Error("export needs -table billionaires or -table assets", "value", *table)
		return 2
	}
	if *format != "csv" && *format != "jsonl" {
		slog.Error("invalid -format", "value", *format)
		return 2
	}
	path := *out
	if path == "" {
		path = *table + "." + *format
	}

	store := dataset.NewStore(cfg.DataDir, nil)
	f, err := store.Load(*table)
	if err != nil {
		slog.Error("load failed", "table", *table, "error", err)
		return 1
	}

	if *dateStr != "" {
		day, err := time.Parse("20060102", *dateStr)
		if err != nil {
			slog.Error("invalid -date, want YYYYMMDD", "value", *dateStr)
			return 2
		}
		want := w.TimeToDay(day)
		col, _ := f.ColumnByName("date")
		dates := col.(*w.DateColumn)
		f = f.Filter(func(r int) bool {
			d, ok := dates.GetDay(r)
			return ok && d == want
		})
	}

	switch *format {
	case "csv":
		err = csvio.WriteAll(path, f, csvio.WriterOptions{})
	case "jsonl":
		err = jsonlio.WriteAll(path, f)
	}
	if err != nil {
		slog.Error("export failed", "path", path, "error", err)
		return 1
	}
	slog.Info("export written", "table", *table, "path", path, "rows", f.Rows())
	return 0
}
