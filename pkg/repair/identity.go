package repair

import (
	"context"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// identityFields are the per-person attributes that should never vary across
// snapshots: when they do, the most recent non-null value wins.
var identityFields = []string{"lastName", "gender", "birthDate"}

// CanonicalIdentity rewrites lastName, gender, and birthDate so every row of
// a person carries that person's most recent non-null value. Billionaires
// table only.
type CanonicalIdentity struct{}

func (t *CanonicalIdentity) Name() string { return "canonical_identity" }

func (t *CanonicalIdentity) Apply(ctx context.Context, f *w.Frame) (*w.Frame, error) {
	names, dates, ok := personAndDate(f)
	if !ok {
		return f, nil
	}
	for _, field := range identityFields {
		col, ok := f.ColumnByName(field)
		if !ok {
			continue
		}
		switch c := col.(type) {
		case *w.CategoricalColumn:
			type pick struct {
				day int32
				val string
			}
			best := map[string]pick{}
			for i := 0; i < c.Len(); i++ {
				person, hasName := names.Get(i)
				if !hasName {
					continue
				}
				v, present := c.Get(i)
				if !present {
					continue
				}
				day, _ := dates.GetDay(i)
				if p, seen := best[person]; !seen || day >= p.day {
					best[person] = pick{day: day, val: v}
				}
			}
			for i := 0; i < c.Len(); i++ {
				person, hasName := names.Get(i)
				if !hasName {
					continue
				}
				if p, seen := best[person]; seen {
					c.Set(i, p.val)
				}
			}
		case *w.DateColumn:
			type pick struct {
				day int32
				val int32
			}
			best := map[string]pick{}
			for i := 0; i < c.Len(); i++ {
				person, hasName := names.Get(i)
				if !hasName {
					continue
				}
				v, present := c.GetDay(i)
				if !present {
					continue
				}
				day, _ := dates.GetDay(i)
				if p, seen := best[person]; !seen || day >= p.day {
					best[person] = pick{day: day, val: v}
				}
			}
			for i := 0; i < c.Len(); i++ {
				person, hasName := names.Get(i)
				if !hasName {
					continue
				}
				if p, seen := best[person]; seen {
					c.SetDay(i, p.val)
				}
			}
		}
	}
	return f, nil
}

func personAndDate(f *w.Frame) (*w.CategoricalColumn, *w.DateColumn, bool) {
	nc, ok := f.ColumnByName("personName")
	if !ok {
		return nil, nil, false
	}
	dc, ok := f.ColumnByName("date")
	if !ok {
		return nil, nil, false
	}
	names, nok := nc.(*w.CategoricalColumn)
	dates, dok := dc.(*w.DateColumn)
	if !nok || !dok {
		return nil, nil, false
	}
	return names, dates, true
}
