package repair

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wdm0006/worthwatch/pkg/dataset"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

func addRow(t *testing.T, f *w.Frame, cells map[string]any) {
	t.Helper()
	f.AppendNullRow()
	row := f.Rows() - 1
	for k, v := range cells {
		if err := f.SetCell(row, k, v); err != nil {
			t.Fatal(err)
		}
	}
}

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func cat(t *testing.T, f *w.Frame, row int, name string) (string, bool) {
	t.Helper()
	col, ok := f.ColumnByName(name)
	if !ok {
		t.Fatalf("no column %s", name)
	}
	return col.(*w.CategoricalColumn).Get(row)
}

func TestCleanStrings(t *testing.T) {
	f := w.NewFrame(dataset.Billionaires())
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "  Ada Lovelace ", "city": "London"})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Grace", "city": "Unknown"})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Edith", "city": "unknown_-42", "state": "   "})

	out, err := (&CleanStrings{}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := cat(t, out, 0, "personName"); v != "Ada Lovelace" {
		t.Fatalf("trim: %q", v)
	}
	cc, _ := out.ColumnByName("city")
	if !cc.IsNull(1) || !cc.IsNull(2) {
		t.Fatal("unknown tokens should null out")
	}
	sc, _ := out.ColumnByName("state")
	if !sc.IsNull(2) {
		t.Fatal("whitespace-only value should null out")
	}
}

func TestCanonicalIdentity(t *testing.T) {
	f := w.NewFrame(dataset.Billionaires())
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "lastName": "Lovelance", "birthDate": d("1815-12-10")})
	addRow(t, f, map[string]any{"date": d("2024-01-02"), "personName": "Ada", "lastName": "Lovelace"})
	addRow(t, f, map[string]any{"date": d("2024-01-03"), "personName": "Ada"})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Grace", "lastName": "Hopper"})

	out, err := (&CanonicalIdentity{}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	// latest non-null lastName wins everywhere
	for r := 0; r < 3; r++ {
		if v, _ := cat(t, out, r, "lastName"); v != "Lovelace" {
			t.Fatalf("row %d lastName: %q", r, v)
		}
	}
	if v, _ := cat(t, out, 3, "lastName"); v != "Hopper" {
		t.Fatalf("other person touched: %q", v)
	}
	// birthDate known only on the oldest row still propagates
	bc, _ := out.ColumnByName("birthDate")
	for r := 0; r < 3; r++ {
		bd, ok := bc.(*w.DateColumn).Get(r)
		if !ok || bd.Format("2006-01-02") != "1815-12-10" {
			t.Fatalf("row %d birthDate: %v ok=%v", r, bd, ok)
		}
	}
}

func TestFillOverTime(t *testing.T) {
	f := w.NewFrame(dataset.Billionaires())
	addRow(t, f, map[string]any{"date": d("2024-01-03"), "personName": "Ada"})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada"})
	addRow(t, f, map[string]any{"date": d("2024-01-02"), "personName": "Ada", "city": "London"})
	addRow(t, f, map[string]any{"date": d("2024-01-04"), "personName": "Ada", "city": "Paris"})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Grace"})

	out, err := (&FillOverTime{}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	// day 1 backfills from day 2; day 3 forward-fills from day 2
	if v, _ := cat(t, out, 1, "city"); v != "London" {
		t.Fatalf("backward fill: %q", v)
	}
	if v, _ := cat(t, out, 0, "city"); v != "London" {
		t.Fatalf("forward fill: %q", v)
	}
	if v, _ := cat(t, out, 3, "city"); v != "Paris" {
		t.Fatalf("existing value overwritten: %q", v)
	}
	cc, _ := out.ColumnByName("city")
	if !cc.IsNull(4) {
		t.Fatal("person with no values should stay null")
	}
}

func TestDedupeBillionaires(t *testing.T) {
	f := w.NewFrame(dataset.Billionaires())
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "finalWorth": dec("100")})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "finalWorth": dec("250")})
	addRow(t, f, map[string]any{"date": d("2024-01-02"), "personName": "Ada", "finalWorth": dec("90")})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "finalWorth": dec("999")}) // null personName

	out, err := (&Dedupe{Table: dataset.TableBillionaires}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("rows: got %d", out.Rows())
	}
	wc, _ := out.ColumnByName("finalWorth")
	v, _ := wc.(*w.DecimalColumn).Get(0)
	if v.String() != "250" {
		t.Fatalf("should keep the highest finalWorth, got %s", v)
	}
}

func TestDedupeAssets(t *testing.T) {
	f := w.NewFrame(dataset.Assets())
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "ticker": "BAB", "interactive": true, "numberOfShares": dec("10")})
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "ticker": "BAB", "interactive": true, "numberOfShares": dec("12")})
	// different interactive flag: different key, both kept
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada", "ticker": "BAB", "interactive": false, "numberOfShares": dec("1")})

	out, err := (&Dedupe{Table: dataset.TableAssets}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("rows: got %d", out.Rows())
	}
	sc, _ := out.ColumnByName("numberOfShares")
	v, _ := sc.(*w.DecimalColumn).Get(0)
	if v.String() != "12" {
		t.Fatalf("should keep the highest numberOfShares, got %s", v)
	}
}

func TestAnalyze(t *testing.T) {
	f := w.NewFrame(dataset.Billionaires())
	addRow(t, f, map[string]any{"date": d("2024-01-01"), "personName": "Ada ", "lastName": "Lovelace", "city": "London"})
	addRow(t, f, map[string]any{"date": d("2024-01-02"), "personName": "Ada", "lastName": "Lovelance"})
	addRow(t, f, map[string]any{"date": d("2024-01-02"), "personName": "Ada", "source": "Unknown"})

	issues := Analyze(f, dataset.TableBillionaires)
	if issues.Rows != 3 {
		t.Fatalf("rows: %d", issues.Rows)
	}
	if issues.Whitespace != 1 {
		t.Fatalf("whitespace: %d", issues.Whitespace)
	}
	if issues.UnknownTokens != 1 {
		t.Fatalf("unknown tokens: %d", issues.UnknownTokens)
	}
	// "Ada " and "Ada" read as distinct people here, so the city value
	// belongs to a person with no null rows
	if issues.FillableNulls["city"] != 0 {
		t.Fatalf("city belongs only to 'Ada ': %v", issues.FillableNulls)
	}
	if issues.DuplicateGroups != 1 || issues.DuplicateRows != 1 {
		t.Fatalf("duplicates: %d groups %d rows", issues.DuplicateGroups, issues.DuplicateRows)
	}
}
