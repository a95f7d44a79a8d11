package repair

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// Dedupe drops rows with a null personName, then keeps a single row per
// duplicate key: billionaires keyed by (date, personName) keeping the highest
// finalWorth, assets keyed by the full holding identity keeping the highest
// numberOfShares. Nulls compare lowest.
type Dedupe struct {
	Table string
}

func (t *Dedupe) Name() string { return "dedupe" }

func (t *Dedupe) Apply(ctx context.Context, f *w.Frame) (*w.Frame, error) {
	var keyCols []string
	var metric string
	switch t.Table {
	case dataset.TableBillionaires:
		keyCols = []string{"date", "personName"}
		metric = "finalWorth"
	case dataset.TableAssets:
		keyCols = []string{"date", "personName", "ticker", "companyName", "currencyCode", "exchange", "interactive", "exchangeRate", "exerciseOptionPrice"}
		metric = "numberOfShares"
	default:
		return nil, fmt.Errorf("dedupe: unknown table %q", t.Table)
	}

	nc, _ := f.ColumnByName("personName")
	names, ok := nc.(*w.CategoricalColumn)
	if !ok {
		return f, nil
	}
	mc, _ := f.ColumnByName(metric)
	metricCol, _ := mc.(*w.DecimalColumn)

	type pick struct {
		row    int
		metric int64
	}
	best := map[string]pick{}
	for r := 0; r < f.Rows(); r++ {
		if names.IsNull(r) {
			continue
		}
		key := rowKey(f, r, keyCols)
		m := int64(math.MinInt64)
		if metricCol != nil {
			if u, ok := metricCol.GetUnscaled(r); ok {
				m = u
			}
		}
		if p, seen := best[key]; !seen || m > p.metric {
			best[key] = pick{row: r, metric: m}
		}
	}

	keep := make(map[int]bool, len(best))
	for _, p := range best {
		keep[p.row] = true
	}
	return f.Filter(func(r int) bool { return keep[r] }), nil
}

// rowKey renders the key columns of one row; nulls carry a marker distinct
// from any real value.
func rowKey(f *w.Frame, r int, cols []string) string {
	parts := make([]string, len(cols))
	for i, name := range cols {
		col, _ := f.ColumnByName(name)
		part := "\x00null"
		switch c := col.(type) {
		case *w.BoolColumn:
			if v, ok := c.Get(r); ok {
				part = fmt.Sprint(v)
			}
		case *w.DateColumn:
			if d, ok := c.GetDay(r); ok {
				part = fmt.Sprint(d)
			}
		case *w.DecimalColumn:
			if u, ok := c.GetUnscaled(r); ok {
				part = fmt.Sprint(u)
			}
		case *w.CategoricalColumn:
			if v, ok := c.Get(r); ok {
				part = v
			}
		}
		parts[i] = part
	}
	return strings.Join(parts, "\x1f")
}
