package repair

import (
	"context"
	"sort"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// fillFields are slow-moving attributes worth carrying across snapshot gaps.
var fillFields = []string{"countryOfCitizenship", "city", "state", "source", "industries"}

// FillOverTime forward-fills then backward-fills each person's slow-moving
// attributes along their date-ordered snapshot history. Billionaires table
// only.
type FillOverTime struct{}

func (t *FillOverTime) Name() string { return "fill_over_time" }

func (t *FillOverTime) Apply(ctx context.Context, f *w.Frame) (*w.Frame, error) {
	names, dates, ok := personAndDate(f)
	if !ok {
		return f, nil
	}

	// per-person row indices in date order
	groups := map[string][]int{}
	for i := 0; i < names.Len(); i++ {
		person, present := names.Get(i)
		if !present {
			continue
		}
		groups[person] = append(groups[person], i)
	}
	for _, rows := range groups {
		sort.SliceStable(rows, func(a, b int) bool {
			da, _ := dates.GetDay(rows[a])
			db, _ := dates.GetDay(rows[b])
			return da < db
		})
	}

	for _, field := range fillFields {
		col, ok := f.ColumnByName(field)
		if !ok {
			continue
		}
		c, ok := col.(*w.CategoricalColumn)
		if !ok {
			continue
		}
		for _, rows := range groups {
			var carry string
			have := false
			for _, r := range rows {
				if v, present := c.Get(r); present {
					carry, have = v, true
				} else if have {
					c.Set(r, carry)
				}
			}
			have = false
			for i := len(rows) - 1; i >= 0; i-- {
				r := rows[i]
				if v, present := c.Get(r); present {
					carry, have = v, true
				} else if have {
					c.Set(r, carry)
				}
			}
		}
	}
	return f, nil
}
