package parquetio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

func sampleSchema() w.Schema {
	return w.Schema{Columns: []w.ColumnSchema{
		{Name: "date", Type: w.KindDate, Nullable: true},
		{Name: "personName", Type: w.KindCategorical, Nullable: true},
		{Name: "finalWorth", Type: w.KindDecimal, Scale: 8, Nullable: true},
		{Name: "interactive", Type: w.KindBool, Nullable: true},
	}}
}

func sampleFrame(t *testing.T) *w.Frame {
	t.Helper()
	f := w.NewFrame(sampleSchema())
	worth, _ := decimal.NewFromString("123456789.12345678")
	rows := []map[string]any{
		{"date": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "personName": "Ada Lovelace", "finalWorth": worth, "interactive": true},
		{"date": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "personName": "Grace Hopper"},
		{"personName": "Ada Lovelace", "interactive": false},
	}
	for i, cells := range rows {
		f.AppendNullRow()
		for k, v := range cells {
			if err := f.SetCell(i, k, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	return f
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.parquet")
	src := sampleFrame(t)
	if err := WriteFile(path, "sample", src, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path, sampleSchema())
	if err != nil {
		t.Fatal(err)
	}
	if got.Rows() != src.Rows() {
		t.Fatalf("rows: got %d want %d", got.Rows(), src.Rows())
	}

	dc, _ := got.ColumnByName("date")
	if _, ok := dc.(*w.DateColumn).Get(0); !ok {
		t.Fatal("row 0 date lost")
	}
	if !dc.IsNull(2) {
		t.Fatal("row 2 date should stay null")
	}

	wc, _ := got.ColumnByName("finalWorth")
	v, ok := wc.(*w.DecimalColumn).Get(0)
	if !ok || v.String() != "123456789.12345678" {
		t.Fatalf("decimal fidelity: got %s ok=%v", v, ok)
	}
	if !wc.IsNull(1) {
		t.Fatal("row 1 finalWorth should stay null")
	}

	nc, _ := got.ColumnByName("personName")
	n0, _ := nc.(*w.CategoricalColumn).Get(0)
	n2, _ := nc.(*w.CategoricalColumn).Get(2)
	if n0 != "Ada Lovelace" || n2 != "Ada Lovelace" {
		t.Fatalf("categorical values: %q %q", n0, n2)
	}
	c0, _ := nc.(*w.CategoricalColumn).GetCode(0)
	c2, _ := nc.(*w.CategoricalColumn).GetCode(2)
	if c0 != c2 {
		t.Fatal("identical strings should share a dictionary code after load")
	}

	bc, _ := got.ColumnByName("interactive")
	b0, _ := bc.(*w.BoolColumn).Get(0)
	b2, _ := bc.(*w.BoolColumn).Get(2)
	if !b0 || b2 {
		t.Fatalf("bool values: %v %v", b0, b2)
	}
}

func TestReadEnforcesDeclaredSchema(t *testing.T) {
	// write a file that lacks finalWorth and carries an extra column
	narrow := w.Schema{Columns: []w.ColumnSchema{
		{Name: "date", Type: w.KindDate, Nullable: true},
		{Name: "personName", Type: w.KindCategorical, Nullable: true},
		{Name: "extra", Type: w.KindCategorical, Nullable: true},
	}}
	f := w.NewFrame(narrow)
	f.AppendNullRow()
	_ = f.SetCell(0, "date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_ = f.SetCell(0, "personName", "Ada Lovelace")
	_ = f.SetCell(0, "extra", "ignored")

	path := filepath.Join(t.TempDir(), "narrow.parquet")
	if err := WriteFile(path, "sample", f, WriterOptions{}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path, sampleSchema())
	if err != nil {
		t.Fatal(err)
	}
	if got.Rows() != 1 {
		t.Fatalf("rows: got %d", got.Rows())
	}
	wc, _ := got.ColumnByName("finalWorth")
	if !wc.IsNull(0) {
		t.Fatal("missing column should load as null")
	}
	if _, ok := got.ColumnByName("extra"); ok {
		t.Fatal("undeclared column should be dropped")
	}
}

func BenchmarkWriteFile(b *testing.B) {
	f := w.NewFrame(sampleSchema())
	worth, _ := decimal.NewFromString("1234.56789012")
	for i := 0; i < 2000; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		_ = f.SetCell(i, "personName", "Person")
		_ = f.SetCell(i, "finalWorth", worth)
	}
	dir := b.TempDir()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := WriteFile(filepath.Join(dir, "bench.parquet"), "bench", f, WriterOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
