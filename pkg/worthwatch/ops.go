package worthwatch

import (
	"fmt"
	"sort"
	"strings"
)

// Append appends every row of other to f. Schemas must match column-for-column
// by name, kind, and scale. Categorical values are re-interned into the
// receiver's dictionaries, so codes from other do not leak across frames.
func (f *Frame) Append(other *Frame) error {
	if err := compatibleSchemas(f.schema, other.schema); err != nil {
		return err
	}
	for i, cs := range f.schema.Columns {
		src, _ := other.ColumnByName(cs.Name)
		switch dst := f.cols[i].(type) {
		case *BoolColumn:
			sc := src.(*BoolColumn)
			for r := 0; r < sc.Len(); r++ {
				if v, ok := sc.Get(r); ok {
					dst.Append(v)
				} else {
					dst.AppendNull()
				}
			}
		case *DateColumn:
			sc := src.(*DateColumn)
			for r := 0; r < sc.Len(); r++ {
				if d, ok := sc.GetDay(r); ok {
					dst.AppendDay(d)
				} else {
					dst.AppendNull()
				}
			}
		case *DecimalColumn:
			sc := src.(*DecimalColumn)
			for r := 0; r < sc.Len(); r++ {
				if u, ok := sc.GetUnscaled(r); ok {
					dst.AppendUnscaled(u)
				} else {
					dst.AppendNull()
				}
			}
		case *CategoricalColumn:
			sc := src.(*CategoricalColumn)
			for r := 0; r < sc.Len(); r++ {
				if v, ok := sc.Get(r); ok {
					dst.Append(v)
				} else {
					dst.AppendNull()
				}
			}
		}
	}
	f.nrows += other.nrows
	return nil
}

func compatibleSchemas(a, b Schema) error {
	if len(a.Columns) != len(b.Columns) {
		return fmt.Errorf("schema mismatch: %d vs %d columns", len(a.Columns), len(b.Columns))
	}
	for i, ca := range a.Columns {
		cb := b.Columns[i]
		if ca.Name != cb.Name || ca.Type != cb.Type || ca.Scale != cb.Scale {
			return fmt.Errorf("schema mismatch at column %d: %s vs %s", i, ca.Name, cb.Name)
		}
	}
	return nil
}

// Filter returns a new Frame holding only the rows for which keep is true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.nrows)
	for r := 0; r < f.nrows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return f.take(rows)
}

func (f *Frame) take(rows []int) *Frame {
	out := NewFrame(f.schema)
	for i := range f.cols {
		switch dst := out.cols[i].(type) {
		case *BoolColumn:
			sc := f.cols[i].(*BoolColumn)
			for _, r := range rows {
				if v, ok := sc.Get(r); ok {
					dst.Append(v)
				} else {
					dst.AppendNull()
				}
			}
		case *DateColumn:
			sc := f.cols[i].(*DateColumn)
			for _, r := range rows {
				if d, ok := sc.GetDay(r); ok {
					dst.AppendDay(d)
				} else {
					dst.AppendNull()
				}
			}
		case *DecimalColumn:
			sc := f.cols[i].(*DecimalColumn)
			for _, r := range rows {
				if u, ok := sc.GetUnscaled(r); ok {
					dst.AppendUnscaled(u)
				} else {
					dst.AppendNull()
				}
			}
		case *CategoricalColumn:
			sc := f.cols[i].(*CategoricalColumn)
			for _, r := range rows {
				if v, ok := sc.Get(r); ok {
					dst.Append(v)
				} else {
					dst.AppendNull()
				}
			}
		}
	}
	out.nrows = len(rows)
	return out
}

// SortBy stably sorts rows by the named columns, in order. Nulls sort first.
// Categoricals compare by string value, dates by day, decimals by unscaled
// value, bools false before true.
func (f *Frame) SortBy(cols ...string) error {
	keys := make([]Column, len(cols))
	for i, name := range cols {
		col, ok := f.ColumnByName(name)
		if !ok {
			return fmt.Errorf("unknown sort column: %s", name)
		}
		keys[i] = col
	}
	idx := make([]int, f.nrows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		for _, col := range keys {
			if c := compareCells(col, a, b); c != 0 {
				return c < 0
			}
		}
		return false
	})
	*f = *f.take(idx)
	return nil
}

func compareCells(col Column, a, b int) int {
	an, bn := col.IsNull(a), col.IsNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	switch c := col.(type) {
	case *BoolColumn:
		va, _ := c.Get(a)
		vb, _ := c.Get(b)
		switch {
		case va == vb:
			return 0
		case !va:
			return -1
		default:
			return 1
		}
	case *DateColumn:
		da, _ := c.GetDay(a)
		db, _ := c.GetDay(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	case *DecimalColumn:
		ua, _ := c.GetUnscaled(a)
		ub, _ := c.GetUnscaled(b)
		switch {
		case ua < ub:
			return -1
		case ua > ub:
			return 1
		default:
			return 0
		}
	case *CategoricalColumn:
		va, _ := c.Get(a)
		vb, _ := c.Get(b)
		return strings.Compare(va, vb)
	}
	return 0
}
