package repair

import (
	"strconv"
	"strings"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// Issues summarizes what the repair steps would change in a table, without
// mutating anything.
type Issues struct {
	Table             string         `json:"table"`
	Rows              int            `json:"rows"`
	Whitespace        int            `json:"whitespace"`
	UnknownTokens     int            `json:"unknown_tokens"`
	IdentityConflicts map[string]int `json:"identity_conflicts,omitempty"`
	FillableNulls     map[string]int `json:"fillable_nulls,omitempty"`
	DuplicateGroups   int            `json:"duplicate_groups"`
	DuplicateRows     int            `json:"duplicate_rows"`
}

// Analyze inspects a loaded table and counts the issues each repair order
// targets: stray whitespace, unknown placeholders, inconsistent identity
// fields, fillable attribute gaps, and duplicate rows.
func Analyze(f *w.Frame, table string) Issues {
	issues := Issues{Table: table, Rows: f.Rows()}

	for _, cs := range f.Schema().Columns {
		col, _ := f.ColumnByName(cs.Name)
		c, ok := col.(*w.CategoricalColumn)
		if !ok {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			v, present := c.Get(i)
			if !present {
				continue
			}
			trimmed := strings.TrimSpace(v)
			if trimmed != v {
				issues.Whitespace++
			}
			if trimmed == "" || unknownRE.MatchString(trimmed) {
				issues.UnknownTokens++
			}
		}
	}

	if table == dataset.TableBillionaires {
		issues.IdentityConflicts = identityConflicts(f)
		issues.FillableNulls = fillableNulls(f)
	}
	issues.DuplicateGroups, issues.DuplicateRows = duplicates(f, table)
	return issues
}

// identityConflicts counts, per identity field, the people with more than one
// distinct non-null value on record.
func identityConflicts(f *w.Frame) map[string]int {
	names, _, ok := personAndDate(f)
	if !ok {
		return nil
	}
	out := map[string]int{}
	for _, field := range identityFields {
		col, ok := f.ColumnByName(field)
		if !ok {
			continue
		}
		values := map[string]map[string]bool{}
		for i := 0; i < names.Len(); i++ {
			person, hasName := names.Get(i)
			if !hasName {
				continue
			}
			var v string
			switch c := col.(type) {
			case *w.CategoricalColumn:
				s, present := c.Get(i)
				if !present {
					continue
				}
				v = s
			case *w.DateColumn:
				d, present := c.GetDay(i)
				if !present {
					continue
				}
				v = strconv.Itoa(int(d))
			default:
				continue
			}
			if values[person] == nil {
				values[person] = map[string]bool{}
			}
			values[person][v] = true
		}
		for _, vs := range values {
			if len(vs) > 1 {
				out[field]++
			}
		}
	}
	return out
}

// fillableNulls counts, per fill field, the null cells belonging to a person
// who has at least one non-null value for that field.
func fillableNulls(f *w.Frame) map[string]int {
	names, _, ok := personAndDate(f)
	if !ok {
		return nil
	}
	out := map[string]int{}
	for _, field := range fillFields {
		col, ok := f.ColumnByName(field)
		if !ok {
			continue
		}
		c, ok := col.(*w.CategoricalColumn)
		if !ok {
			continue
		}
		hasValue := map[string]bool{}
		nullRows := map[string]int{}
		for i := 0; i < names.Len(); i++ {
			person, hasName := names.Get(i)
			if !hasName {
				continue
			}
			if c.IsNull(i) {
				nullRows[person]++
			} else {
				hasValue[person] = true
			}
		}
		for person, n := range nullRows {
			if hasValue[person] {
				out[field] += n
			}
		}
	}
	return out
}

func duplicates(f *w.Frame, table string) (groups, rows int) {
	var keyCols []string
	switch table {
	case dataset.TableBillionaires:
		keyCols = []string{"date", "personName"}
	case dataset.TableAssets:
		keyCols = []string{"date", "personName", "ticker", "companyName", "currencyCode", "exchange", "interactive", "exchangeRate", "exerciseOptionPrice"}
	default:
		return 0, 0
	}
	nc, _ := f.ColumnByName("personName")
	names, ok := nc.(*w.CategoricalColumn)
	if !ok {
		return 0, 0
	}
	counts := map[string]int{}
	for r := 0; r < f.Rows(); r++ {
		if names.IsNull(r) {
			continue
		}
		counts[rowKey(f, r, keyCols)]++
	}
	for _, n := range counts {
		if n > 1 {
			groups++
			rows += n - 1
		}
	}
	return groups, rows
}
