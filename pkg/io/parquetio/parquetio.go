// Package parquetio reads and writes worthwatch Frames as parquet files.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"
	"github.com/segmentio/parquet-go/compress"
	"github.com/segmentio/parquet-go/compress/brotli"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// DefaultCodec compresses every column chunk with brotli at maximum quality.
var DefaultCodec compress.Codec = &brotli.Codec{Quality: 11}

type WriterOptions struct {
	Codec compress.Codec // default brotli quality 11
}

// ParquetSchema maps a worthwatch Schema onto a parquet schema: dates become
// INT32/DATE, decimals INT64/DECIMAL(18,scale), categoricals UTF8 byte arrays
// with dictionary encoding, bools BOOLEAN.
func ParquetSchema(name string, s w.Schema) *parquet.Schema {
	group := parquet.Group{}
	for _, cs := range s.Columns {
		var node parquet.Node
		switch cs.Type {
		case w.KindBool:
			node = parquet.Leaf(parquet.BooleanType)
		case w.KindDate:
			node = parquet.Date()
		case w.KindDecimal:
			node = parquet.Decimal(int(cs.Scale), w.DecimalPrecision, parquet.Int64Type)
		case w.KindCategorical:
			node = parquet.Encoded(parquet.String(), &parquet.RLEDictionary)
		default:
			panic("invalid column kind")
		}
		if cs.Nullable {
			node = parquet.Optional(node)
		}
		group[cs.Name] = node
	}
	return parquet.NewSchema(name, group)
}

// WriteFile writes the whole Frame to path, fsyncing before close so a
// following rename publishes durable bytes. Rows are assembled as explicit
// parquet values rather than map records: the map deconstruct path cannot
// unwrap interface-typed cells.
func WriteFile(path, name string, f *w.Frame, opt WriterOptions) error {
	codec := opt.Codec
	if codec == nil {
		codec = DefaultCodec
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	schema := ParquetSchema(name, f.Schema())
	writer := parquet.NewWriter(out, schema, parquet.Compression(codec))

	// group fields come back sorted by name; leaf column indices follow that
	// order, not the declared one
	fields := schema.Fields()
	cols := make([]w.Column, len(fields))
	for i, field := range fields {
		cols[i], _ = f.ColumnByName(field.Name())
	}

	batch := make([]parquet.Row, 0, 1024)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.WriteRows(batch); err != nil {
			return fmt.Errorf("parquet write: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for r := 0; r < f.Rows(); r++ {
		batch = append(batch, rowValues(cols, fields, r))
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				_ = out.Close()
				return err
			}
		}
	}
	if err := flush(); err != nil {
		_ = out.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("parquet close: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// rowValues renders one row as leaf values in column-index order. Dates go
// out as day numbers, decimals as unscaled int64 at the column scale.
func rowValues(cols []w.Column, fields []parquet.Field, r int) parquet.Row {
	row := make(parquet.Row, len(fields))
	for i, field := range fields {
		var v parquet.Value
		null := true
		switch c := cols[i].(type) {
		case *w.BoolColumn:
			if b, ok := c.Get(r); ok {
				v, null = parquet.BooleanValue(b), false
			}
		case *w.DateColumn:
			if d, ok := c.GetDay(r); ok {
				v, null = parquet.Int32Value(d), false
			}
		case *w.DecimalColumn:
			if u, ok := c.GetUnscaled(r); ok {
				v, null = parquet.Int64Value(u), false
			}
		case *w.CategoricalColumn:
			if s, ok := c.Get(r); ok {
				v, null = parquet.ByteArrayValue([]byte(s)), false
			}
		}
		def := 0
		if null {
			v = parquet.ValueOf(nil)
		} else if field.Optional() {
			def = 1
		}
		row[i] = v.Level(0, def, i)
	}
	return row
}

// ReadFile reads path into a Frame with the declared schema. Columns absent
// from the file come back all-null, columns the schema does not declare are
// dropped, and integer widths are tolerated loosely so files written by other
// tools still load.
func ReadFile(path string, s w.Schema) (*w.Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	// the reader needs a concrete target schema up front: it cannot derive
	// one from a map row type. File rows convert to the declared shape.
	reader := parquet.NewGenericReader[map[string]any](in, ParquetSchema("table", s))
	defer func() { _ = reader.Close() }()

	f := w.NewFrame(s)
	buf := make([]map[string]any, 1024)
	for i := range buf {
		buf[i] = map[string]any{}
	}
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			f.AppendNullRow()
			setRow(f, f.Rows()-1, buf[i])
			// reconstruct fills maps in place; stale keys would read as
			// present cells on the next batch
			buf[i] = map[string]any{}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parquet read: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

func setRow(f *w.Frame, row int, rec map[string]any) {
	for _, cs := range f.Schema().Columns {
		v, ok := rec[cs.Name]
		if !ok || v == nil {
			continue
		}
		col, _ := f.ColumnByName(cs.Name)
		switch cs.Type {
		case w.KindBool:
			if b, ok := v.(bool); ok {
				col.(*w.BoolColumn).Set(row, b)
			}
		case w.KindDate:
			if d, ok := asInt64(v); ok {
				col.(*w.DateColumn).SetDay(row, int32(d))
			}
		case w.KindDecimal:
			if u, ok := asInt64(v); ok {
				col.(*w.DecimalColumn).SetUnscaled(row, u)
			}
		case w.KindCategorical:
			switch t := v.(type) {
			case string:
				col.(*w.CategoricalColumn).Set(row, t)
			case []byte:
				col.(*w.CategoricalColumn).Set(row, string(t))
			}
		}
	}
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}
