package worthwatch

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Scale    int32 // decimal columns only; precision is fixed at 18
	Nullable bool
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindDate
	KindDecimal
	KindCategorical
)

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

// DateColumn stores days since the Unix epoch (UTC midnight).
type DateColumn struct {
	name  string
	data  []int32
	nulls []bool
}

func NewDateColumn(name string, n int) *DateColumn {
	return &DateColumn{name: name, data: make([]int32, n), nulls: make([]bool, n)}
}
func (c *DateColumn) Name() string      { return c.name }
func (c *DateColumn) Kind() Kind        { return KindDate }
func (c *DateColumn) Len() int          { return len(c.data) }
func (c *DateColumn) IsNull(i int) bool { return c.nulls[i] }
func (c *DateColumn) SetNull(i int)     { c.nulls[i] = true }
func (c *DateColumn) Get(i int) (time.Time, bool) {
	return DayToTime(c.data[i]), !c.nulls[i]
}
func (c *DateColumn) GetDay(i int) (int32, bool) { return c.data[i], !c.nulls[i] }
func (c *DateColumn) Set(i int, v time.Time)     { c.data[i] = TimeToDay(v); c.nulls[i] = false }
func (c *DateColumn) SetDay(i int, d int32)      { c.data[i] = d; c.nulls[i] = false }
func (c *DateColumn) AppendNull()                { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *DateColumn) Append(v time.Time) {
	c.data = append(c.data, TimeToDay(v))
	c.nulls = append(c.nulls, false)
}
func (c *DateColumn) AppendDay(d int32) { c.data = append(c.data, d); c.nulls = append(c.nulls, false) }

// TimeToDay converts a time to days since the Unix epoch, dropping the
// time-of-day component in UTC.
func TimeToDay(t time.Time) int32 {
	u := t.UTC()
	y, m, d := u.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int32(midnight.Unix() / 86400)
}

func DayToTime(d int32) time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// DecimalColumn stores unscaled int64 values at a fixed per-column scale,
// so cell values never pass through binary floating point.
type DecimalColumn struct {
	name  string
	scale int32
	data  []int64
	nulls []bool
}

func NewDecimalColumn(name string, scale int32, n int) *DecimalColumn {
	return &DecimalColumn{name: name, scale: scale, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *DecimalColumn) Name() string      { return c.name }
func (c *DecimalColumn) Kind() Kind        { return KindDecimal }
func (c *DecimalColumn) Scale() int32      { return c.scale }
func (c *DecimalColumn) Len() int          { return len(c.data) }
func (c *DecimalColumn) IsNull(i int) bool { return c.nulls[i] }
func (c *DecimalColumn) SetNull(i int)     { c.nulls[i] = true }
func (c *DecimalColumn) Get(i int) (decimal.Decimal, bool) {
	return decimal.New(c.data[i], -c.scale), !c.nulls[i]
}
func (c *DecimalColumn) GetUnscaled(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *DecimalColumn) Set(i int, v decimal.Decimal) error {
	u, err := Fit(v, c.scale)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.name, err)
	}
	c.data[i] = u
	c.nulls[i] = false
	return nil
}
func (c *DecimalColumn) SetUnscaled(i int, u int64) { c.data[i] = u; c.nulls[i] = false }
func (c *DecimalColumn) AppendNull()                { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *DecimalColumn) Append(v decimal.Decimal) error {
	u, err := Fit(v, c.scale)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.name, err)
	}
	c.data = append(c.data, u)
	c.nulls = append(c.nulls, false)
	return nil
}
func (c *DecimalColumn) AppendUnscaled(u int64) {
	c.data = append(c.data, u)
	c.nulls = append(c.nulls, false)
}

// CategoricalColumn is a dictionary-encoded string column. The dictionary is
// append-only and scoped to the column: identical strings intern to identical
// codes, and codes stay stable under append.
type CategoricalColumn struct {
	name  string
	codes []int32
	nulls []bool
	dict  []string
	index map[string]int32
}

func NewCategoricalColumn(name string, n int) *CategoricalColumn {
	return &CategoricalColumn{
		name:  name,
		codes: make([]int32, n),
		nulls: make([]bool, n),
		index: make(map[string]int32),
	}
}
func (c *CategoricalColumn) Name() string      { return c.name }
func (c *CategoricalColumn) Kind() Kind        { return KindCategorical }
func (c *CategoricalColumn) Len() int          { return len(c.codes) }
func (c *CategoricalColumn) IsNull(i int) bool { return c.nulls[i] }
func (c *CategoricalColumn) SetNull(i int)     { c.nulls[i] = true }
func (c *CategoricalColumn) Get(i int) (string, bool) {
	if c.nulls[i] {
		return "", false
	}
	return c.dict[c.codes[i]], true
}
func (c *CategoricalColumn) GetCode(i int) (int32, bool) { return c.codes[i], !c.nulls[i] }
func (c *CategoricalColumn) Set(i int, v string)         { c.codes[i] = c.intern(v); c.nulls[i] = false }
func (c *CategoricalColumn) AppendNull() {
	c.codes = append(c.codes, 0)
	c.nulls = append(c.nulls, true)
}
func (c *CategoricalColumn) Append(v string) {
	c.codes = append(c.codes, c.intern(v))
	c.nulls = append(c.nulls, false)
}

// Dict returns the column's dictionary in code order.
func (c *CategoricalColumn) Dict() []string { return c.dict }

func (c *CategoricalColumn) intern(v string) int32 {
	if code, ok := c.index[v]; ok {
		return code
	}
	code := int32(len(c.dict))
	c.dict = append(c.dict, v)
	c.index[v] = code
	return code
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		switch cs.Type {
		case KindBool:
			f.cols[i] = NewBoolColumn(cs.Name, 0)
		case KindDate:
			f.cols[i] = NewDateColumn(cs.Name, 0)
		case KindDecimal:
			f.cols[i] = NewDecimalColumn(cs.Name, cs.Scale, 0)
		case KindCategorical:
			f.cols[i] = NewCategoricalColumn(cs.Name, 0)
		default:
			panic("invalid column kind")
		}
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *DateColumn:
			col.AppendNull()
		case *DecimalColumn:
			col.AppendNull()
		case *CategoricalColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
// nil stores a null; otherwise the Go type must match the column kind:
// bool, time.Time, decimal.Decimal, or string.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	switch col := c.(type) {
	case *BoolColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *DateColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	case *DecimalColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		d, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("column %s expects decimal.Decimal", name)
		}
		return col.Set(row, d)
	case *CategoricalColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
