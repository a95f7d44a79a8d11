// Package repair holds operator-run maintenance transforms for persisted
// tables: string cleanup, identity canonicalization, gap filling, and
// deduplication. The daily update path never invokes these.
package repair

import (
	"context"
	"regexp"
	"strings"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// unknownRE matches the placeholder tokens the upstream occasionally emits.
var unknownRE = regexp.MustCompile(`(?i)^(unknown|unknown_-?\d+)$`)

// CleanStrings trims whitespace on every categorical cell and nulls out
// values that trim to empty or match an unknown-placeholder token.
type CleanStrings struct{}

func (t *CleanStrings) Name() string { return "clean_strings" }

func (t *CleanStrings) Apply(ctx context.Context, f *w.Frame) (*w.Frame, error) {
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
			if trimmed == "" || unknownRE.MatchString(trimmed) {
				c.SetNull(i)
				continue
			}
			if trimmed != v {
				c.Set(i, trimmed)
			}
		}
	}
	return f, nil
}
