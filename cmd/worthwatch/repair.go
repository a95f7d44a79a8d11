package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	"github.com/wdm0006/worthwatch/pkg/repair"
)

// runRepair applies the maintenance pipeline to persisted tables, backing
// each file up before it is overwritten. Identity and fill steps only apply
// to the billionaires table.
func runRepair(args []string) int {
	fs := flag.NewFlagSet("repair", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "directory holding the parquet tables")
	table := fs.String("table", "both", "billionaires, assets, or both")
	dryRun := fs.Bool("dry-run", false, "report what would change, write nothing")
	backupDir := fs.String("backup-dir", "backups", "directory for pre-repair backups")
	noBackup := fs.Bool("no-backup", false, "skip the pre-repair backup copy")
	noClean := fs.Bool("no-clean", false, "skip whitespace/unknown cleanup")
	noIdentity := fs.Bool("no-identity", false, "skip identity canonicalization")
	noFill := fs.Bool("no-fill", false, "skip forward/backward fill")
	noDedupe := fs.Bool("no-dedupe", false, "skip deduplication")
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
	for _, name := range tables {
		f, err := store.Load(name)
		if err != nil {
			slog.Error("load failed", "table", name, "error", err)
			return 1
		}
		before := repair.Analyze(f, name)

		p := w.NewPipeline()
		if !*noClean {
			p.Add(&repair.CleanStrings{})
		}
		if name == dataset.TableBillionaires {
			if !*noIdentity {
				p.Add(&repair.CanonicalIdentity{})
			}
			if !*noFill {
				p.Add(&repair.FillOverTime{})
			}
		}
		if !*noDedupe {
			p.Add(&repair.Dedupe{Table: name})
		}
		if p.Len() == 0 {
			slog.Info("all steps disabled, nothing to do", "table", name)
			continue
		}

		out, err := p.Run(context.Background(), f)
		if err != nil {
			slog.Error("repair failed", "table", name, "error", err)
			return 1
		}
		after := repair.Analyze(out, name)
		slog.Info("repair computed",
			"table", name,
			"rows_before", before.Rows, "rows_after", after.Rows,
			"whitespace_fixed", before.Whitespace-after.Whitespace,
			"unknowns_fixed", before.UnknownTokens-after.UnknownTokens,
			"duplicates_removed", before.DuplicateRows-after.DuplicateRows)

		if *dryRun {
			slog.Info("dry run, nothing written", "table", name)
			continue
		}
		if !*noBackup {
			if err := backupTable(store, name, *backupDir); err != nil {
				slog.Error("backup failed", "table", name, "error", err)
				return 1
			}
		}
		if err := store.Save(name, out); err != nil {
			slog.Error("save failed", "table", name, "error", err)
			return 1
		}
	}
	return 0
}

// backupTable copies the current table file, if any, into backupDir with a
// timestamped name before it gets overwritten.
func backupTable(store *dataset.Store, table, backupDir string) error {
	src := store.Path(table)
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}
	stamp := time.Now().UTC().Format("20060102T150405Z")
	dst := filepath.Join(backupDir, fmt.Sprintf("%s-%s.parquet", table, stamp))
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Info("backup written", "table", table, "path", dst)
	return nil
}
