package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wdm0006/worthwatch/pkg/forbes"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// SchemaViolation reports a raw value that cannot be coerced into its
// declared column type. The run fails rather than coercing to zero.
type SchemaViolation struct {
	Table  string
	Column string
	Value  any
	Err    error
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation in %s.%s: cannot convert %#v: %v", e.Table, e.Column, e.Value, e.Err)
}
func (e *SchemaViolation) Unwrap() error { return e.Err }

var billionaireCategoricals = []string{
	"personName", "lastName", "gender", "countryOfCitizenship",
	"city", "state", "source", "industries",
}

var billionaireDecimals = []string{
	"finalWorth", "estWorthPrev", "archivedWorth", "privateAssetsWorth",
}

// BuildBillionaires maps raw person records onto the Billionaires schema,
// stamping every row with the run's snapshot day. The mapping is total:
// absent, null, and empty-string sources become null cells.
func BuildBillionaires(records []forbes.Record, day time.Time) (*w.Frame, error) {
	f := w.NewFrame(Billionaires())
	for _, rec := range records {
		f.AppendNullRow()
		row := f.Rows() - 1
		if err := f.SetCell(row, "date", day); err != nil {
			return nil, err
		}
		for _, name := range billionaireCategoricals {
			if err := setCategorical(f, row, TableBillionaires, name, rec[name]); err != nil {
				return nil, err
			}
		}
		for _, name := range billionaireDecimals {
			if err := setDecimal(f, row, TableBillionaires, name, rec[name]); err != nil {
				return nil, err
			}
		}
		setBirthDate(f, row, rec["birthDate"])
	}
	return f, nil
}

var assetCategoricals = []string{"companyName", "currencyCode", "exchange", "ticker"}

var assetDecimals = []string{
	"currentPrice", "exchangeRate", "exerciseOptionPrice", "numberOfShares", "sharePrice",
}

// BuildAssets maps the financialAssets nested in each person record onto the
// Assets schema. A person may contribute zero, one, or many rows; an asset is
// written even when its person is missing from the billionaire listing.
func BuildAssets(records []forbes.Record, day time.Time) (*w.Frame, error) {
	f := w.NewFrame(Assets())
	for _, rec := range records {
		holdings, _ := rec["financialAssets"].([]any)
		for _, h := range holdings {
			asset, ok := h.(map[string]any)
			if !ok {
				return nil, &SchemaViolation{Table: TableAssets, Column: "financialAssets", Value: h, Err: fmt.Errorf("expected object")}
			}
			f.AppendNullRow()
			row := f.Rows() - 1
			if err := f.SetCell(row, "date", day); err != nil {
				return nil, err
			}
			if err := setCategorical(f, row, TableAssets, "personName", rec["personName"]); err != nil {
				return nil, err
			}
			for _, name := range assetCategoricals {
				if err := setCategorical(f, row, TableAssets, name, asset[name]); err != nil {
					return nil, err
				}
			}
			for _, name := range assetDecimals {
				if err := setDecimal(f, row, TableAssets, name, asset[name]); err != nil {
					return nil, err
				}
			}
			setBool(f, row, "interactive", asset["interactive"])
		}
	}
	return f, nil
}

func setCategorical(f *w.Frame, row int, table, column string, v any) error {
	s, null, err := categoricalText(v)
	if err != nil {
		return &SchemaViolation{Table: table, Column: column, Value: v, Err: err}
	}
	if null {
		return f.SetCell(row, column, nil)
	}
	return f.SetCell(row, column, s)
}

// categoricalText renders a raw value as its categorical string. Empty
// strings count as null; lists (upstream industries) join with ", ".
func categoricalText(v any) (s string, null bool, err error) {
	switch t := v.(type) {
	case nil:
		return "", true, nil
	case string:
		if t == "" {
			return "", true, nil
		}
		return t, false, nil
	case json.Number:
		return t.String(), false, nil
	case bool:
		return strconv.FormatBool(t), false, nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			es, enull, eerr := categoricalText(e)
			if eerr != nil {
				return "", false, eerr
			}
			if !enull {
				parts = append(parts, es)
			}
		}
		if len(parts) == 0 {
			return "", true, nil
		}
		return strings.Join(parts, ", "), false, nil
	default:
		return "", false, fmt.Errorf("unsupported shape %T", v)
	}
}

func setDecimal(f *w.Frame, row int, table, column string, v any) error {
	var text string
	switch t := v.(type) {
	case nil:
		return f.SetCell(row, column, nil)
	case json.Number:
		text = t.String()
	case string:
		if t == "" {
			return f.SetCell(row, column, nil)
		}
		text = t
	default:
		return &SchemaViolation{Table: table, Column: column, Value: v, Err: fmt.Errorf("unsupported shape %T", v)}
	}
	// exact text to exact decimal, no float64 stage
	d, err := decimal.NewFromString(text)
	if err != nil {
		return &SchemaViolation{Table: table, Column: column, Value: v, Err: err}
	}
	if err := f.SetCell(row, column, d); err != nil {
		return &SchemaViolation{Table: table, Column: column, Value: v, Err: err}
	}
	return nil
}

// setBirthDate accepts ISO dates or epoch milliseconds (upstream sends both,
// sometimes negative). Unparseable values degrade to null, never an error.
func setBirthDate(f *w.Frame, row int, v any) {
	var text string
	switch t := v.(type) {
	case string:
		text = t
	case json.Number:
		text = t.String()
	default:
		return
	}
	if text == "" {
		return
	}
	if t, err := time.Parse("2006-01-02", text); err == nil {
		_ = f.SetCell(row, "birthDate", t)
		return
	}
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		_ = f.SetCell(row, "birthDate", time.UnixMilli(ms).UTC())
	}
}

// setBool uses the upstream truthy/falsy token sets; anything else is null.
func setBool(f *w.Frame, row int, column string, v any) {
	switch t := v.(type) {
	case bool:
		_ = f.SetCell(row, column, t)
	case string, json.Number:
		switch fmt.Sprint(t) {
		case "True", "true", "1", "TRUE":
			_ = f.SetCell(row, column, true)
		case "False", "false", "0", "FALSE":
			_ = f.SetCell(row, column, false)
		}
	}
}
