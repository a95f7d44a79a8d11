// Package profile collects per-column statistics for the check command.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

type DecimalStats struct {
	Count int             `json:"count"`
	Nulls int             `json:"nulls"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

type DateStats struct {
	Count int    `json:"count"`
	Nulls int    `json:"nulls"`
	Min   string `json:"min"` // 2006-01-02
	Max   string `json:"max"`
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type CategoricalStats struct {
	Count    int            `json:"count"`
	Nulls    int            `json:"nulls"`
	Distinct int            `json:"distinct"`
	Top      map[string]int `json:"top,omitempty"`
}

type ColumnProfile struct {
	Name    string            `json:"name"`
	Kind    string            `json:"kind"`
	Decimal *DecimalStats     `json:"decimal,omitempty"`
	Date    *DateStats        `json:"date,omitempty"`
	Bool    *BoolStats        `json:"bool,omitempty"`
	Cat     *CategoricalStats `json:"categorical,omitempty"`
}

// Collector accumulates column statistics over one or more frames.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	freqs []map[string]int
	topK  int
}

func NewCollector(schema w.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	c.freqs = make([]map[string]int, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: kindString(cs.Type)}
		switch cs.Type {
		case w.KindDecimal:
			cp.Decimal = &DecimalStats{}
		case w.KindDate:
			cp.Date = &DateStats{}
		case w.KindBool:
			cp.Bool = &BoolStats{}
		case w.KindCategorical:
			cp.Cat = &CategoricalStats{}
			c.freqs[i] = make(map[string]int)
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

func (c *Collector) ConsumeFrame(f *w.Frame) {
	for _, cs := range f.Schema().Columns {
		idx, ok := c.index[cs.Name]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		col, _ := f.ColumnByName(cs.Name)
		switch typed := col.(type) {
		case *w.DecimalColumn:
			for i := 0; i < typed.Len(); i++ {
				v, present := typed.Get(i)
				if !present {
					cp.Decimal.Nulls++
					continue
				}
				if cp.Decimal.Count == 0 || v.LessThan(cp.Decimal.Min) {
					cp.Decimal.Min = v
				}
				if cp.Decimal.Count == 0 || v.GreaterThan(cp.Decimal.Max) {
					cp.Decimal.Max = v
				}
				cp.Decimal.Count++
			}
		case *w.DateColumn:
			for i := 0; i < typed.Len(); i++ {
				v, present := typed.Get(i)
				if !present {
					cp.Date.Nulls++
					continue
				}
				s := v.Format("2006-01-02")
				if cp.Date.Count == 0 || s < cp.Date.Min {
					cp.Date.Min = s
				}
				if cp.Date.Count == 0 || s > cp.Date.Max {
					cp.Date.Max = s
				}
				cp.Date.Count++
			}
		case *w.BoolColumn:
			for i := 0; i < typed.Len(); i++ {
				v, present := typed.Get(i)
				if !present {
					cp.Bool.Nulls++
					continue
				}
				cp.Bool.Count++
				if v {
					cp.Bool.True++
				} else {
					cp.Bool.False++
				}
			}
		case *w.CategoricalColumn:
			for i := 0; i < typed.Len(); i++ {
				v, present := typed.Get(i)
				if !present {
					cp.Cat.Nulls++
					continue
				}
				cp.Cat.Count++
				c.freqs[idx][v]++
			}
		}
	}
}

// Profiles finalizes and returns the collected column profiles.
func (c *Collector) Profiles() []ColumnProfile {
	for i := range c.cols {
		cp := &c.cols[i]
		if cp.Cat == nil {
			continue
		}
		cp.Cat.Distinct = len(c.freqs[i])
		if c.topK > 0 && len(c.freqs[i]) > 0 {
			type kv struct {
				k string
				v int
			}
			arr := make([]kv, 0, len(c.freqs[i]))
			for k, v := range c.freqs[i] {
				arr = append(arr, kv{k, v})
			}
			sort.Slice(arr, func(a, b int) bool {
				if arr[a].v != arr[b].v {
					return arr[a].v > arr[b].v
				}
				return arr[a].k < arr[b].k
			})
			n := c.topK
			if n > len(arr) {
				n = len(arr)
			}
			top := make(map[string]int, n)
			for _, e := range arr[:n] {
				top[e.k] = e.v
			}
			cp.Cat.Top = top
		}
	}
	return c.cols
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range c.Profiles() {
		fmt.Fprintf(&b, "- %s (%s): ", cp.Name, cp.Kind)
		switch {
		case cp.Decimal != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d min=%s max=%s\n",
				cp.Decimal.Count, cp.Decimal.Nulls, cp.Decimal.Min, cp.Decimal.Max)
		case cp.Date != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d range=%s..%s\n",
				cp.Date.Count, cp.Date.Nulls, cp.Date.Min, cp.Date.Max)
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n",
				cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		case cp.Cat != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d distinct=%d\n",
				cp.Cat.Count, cp.Cat.Nulls, cp.Cat.Distinct)
		}
	}
	return b.String()
}

func kindString(k w.Kind) string {
	switch k {
	case w.KindBool:
		return "bool"
	case w.KindDate:
		return "date"
	case w.KindDecimal:
		return "decimal"
	case w.KindCategorical:
		return "categorical"
	default:
		return "invalid"
	}
}
