// Package csvio renders Frames as CSV for external consumers.
package csvio

import (
	"encoding/csv"

	iox "github.com/wdm0006/worthwatch/pkg/io/ioutils"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers. A .gz path compresses
// transparently. Dates render as 2006-01-02, decimals at full column scale,
// nulls as empty cells.
func WriteAll(path string, f *w.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	cw := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}

	hdr := make([]string, len(f.Schema().Columns))
	for i, cs := range f.Schema().Columns {
		hdr[i] = cs.Name
	}
	if err := cw.Write(hdr); err != nil {
		return err
	}

	for r := 0; r < f.Rows(); r++ {
		row := make([]string, len(hdr))
		for c, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			switch cs.Type {
			case w.KindBool:
				if v, ok := col.(*w.BoolColumn).Get(r); ok {
					if v {
						row[c] = "true"
					} else {
						row[c] = "false"
					}
				}
			case w.KindDate:
				if v, ok := col.(*w.DateColumn).Get(r); ok {
					row[c] = v.Format("2006-01-02")
				}
			case w.KindDecimal:
				if v, ok := col.(*w.DecimalColumn).Get(r); ok {
					row[c] = v.StringFixed(cs.Scale)
				}
			case w.KindCategorical:
				if v, ok := col.(*w.CategoricalColumn).Get(r); ok {
					row[c] = v
				}
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
