package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/worthwatch/pkg/io/parquetio"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// StorageError reports a failed table read, write, or publish. The previously
// persisted file is left intact whenever it is returned.
type StorageError struct {
	Table string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for table %s: %v", e.Op, e.Table, e.Err)
}
func (e *StorageError) Unwrap() error { return e.Err }

// Store persists the two tables under Dir as brotli-compressed parquet.
// Callers must serialize runs against one directory; concurrent writers
// would race on the read-modify-write.
type Store struct {
	Dir    string
	Logger *slog.Logger

	// write hook, replaceable in tests to simulate storage failure
	write func(path, name string, f *w.Frame) error
}

func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{Dir: dir, Logger: logger}
}

func (s *Store) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Path returns the persisted file for a table.
func (s *Store) Path(table string) string {
	return filepath.Join(s.Dir, table+".parquet")
}

// Load reads a table with its declared schema enforced. A missing file loads
// as an empty frame, so first runs create the table from nothing.
func (s *Store) Load(table string) (*w.Frame, error) {
	schema, err := SchemaFor(table)
	if err != nil {
		return nil, err
	}
	path := s.Path(table)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return w.NewFrame(schema), nil
	}
	f, err := parquetio.ReadFile(path, schema)
	if err != nil {
		return nil, &StorageError{Table: table, Op: "read", Err: err}
	}
	return f, nil
}

// Upsert merges the run's fresh rows into a table: every persisted row whose
// date equals day is dropped, the fresh rows are appended, and the full table
// image is republished atomically. Re-running for the same day is idempotent.
func (s *Store) Upsert(table string, fresh *w.Frame, day time.Time) error {
	existing, err := s.Load(table)
	if err != nil {
		return err
	}
	d := w.TimeToDay(day)
	col, ok := existing.ColumnByName("date")
	if !ok {
		return &StorageError{Table: table, Op: "merge", Err: fmt.Errorf("table has no date column")}
	}
	dates := col.(*w.DateColumn)
	merged := existing.Filter(func(r int) bool {
		dd, ok := dates.GetDay(r)
		return !ok || dd != d
	})
	replaced := existing.Rows() - merged.Rows()
	if err := merged.Append(fresh); err != nil {
		return &StorageError{Table: table, Op: "merge", Err: err}
	}
	if err := merged.SortBy(SortKeys(table)...); err != nil {
		return &StorageError{Table: table, Op: "merge", Err: err}
	}
	if err := s.writeAtomic(table, merged); err != nil {
		return err
	}
	s.log().Info("table updated",
		"table", table,
		"date", day.UTC().Format("2006-01-02"),
		"replaced", replaced,
		"added", fresh.Rows(),
		"total", merged.Rows())
	return nil
}

// Save republishes a full table image (sorted) without any date merge.
func (s *Store) Save(table string, f *w.Frame) error {
	if err := f.SortBy(SortKeys(table)...); err != nil {
		return &StorageError{Table: table, Op: "sort", Err: err}
	}
	return s.writeAtomic(table, f)
}

// writeAtomic writes to a uniquely named temp file in the table's directory
// and renames it over the final path, so a reader never sees a partial file
// and a failed write leaves the previous image untouched.
func (s *Store) writeAtomic(table string, f *w.Frame) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return &StorageError{Table: table, Op: "write", Err: err}
	}
	final := s.Path(table)
	tmp := final + ".tmp-" + uuid.NewString()
	write := s.write
	if write == nil {
		write = func(path, name string, fr *w.Frame) error {
			return parquetio.WriteFile(path, name, fr, parquetio.WriterOptions{})
		}
	}
	if err := write(tmp, table, f); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Table: table, Op: "write", Err: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Table: table, Op: "publish", Err: err}
	}
	return nil
}
