// Package jsonlio renders Frames as JSON Lines for external consumers.
package jsonlio

import (
	"bufio"
	"encoding/json"

	iox "github.com/wdm0006/worthwatch/pkg/io/ioutils"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// WriteAll writes a Frame as one JSON object per line. Null cells omit their
// keys. Decimals are emitted as raw JSON numbers at full column scale, so no
// float formatting touches them.
func WriteAll(path string, f *w.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	bw := bufio.NewWriter(out)
	enc := json.NewEncoder(bw)
	for r := 0; r < f.Rows(); r++ {
		m := map[string]any{}
		for _, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			switch cs.Type {
			case w.KindBool:
				if v, ok := col.(*w.BoolColumn).Get(r); ok {
					m[cs.Name] = v
				}
			case w.KindDate:
				if v, ok := col.(*w.DateColumn).Get(r); ok {
					m[cs.Name] = v.Format("2006-01-02")
				}
			case w.KindDecimal:
				if v, ok := col.(*w.DecimalColumn).Get(r); ok {
					m[cs.Name] = json.Number(v.StringFixed(cs.Scale))
				}
			case w.KindCategorical:
				if v, ok := col.(*w.CategoricalColumn).Get(r); ok {
					m[cs.Name] = v
				}
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return bw.Flush()
}
