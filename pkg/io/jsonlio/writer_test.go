package jsonlio

import (
	"bufio"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	iox "github.com/wdm0006/worthwatch/pkg/io/ioutils"
	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

func TestWriteAll(t *testing.T) {
	f := w.NewFrame(w.Schema{Columns: []w.ColumnSchema{
		{Name: "date", Type: w.KindDate},
		{Name: "personName", Type: w.KindCategorical, Nullable: true},
		{Name: "finalWorth", Type: w.KindDecimal, Scale: 8, Nullable: true},
	}})
	f.AppendNullRow()
	_ = f.SetCell(0, "date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	worth, _ := decimal.NewFromString("1234.56789012")
	_ = f.SetCell(0, "finalWorth", worth)
	f.AppendNullRow()
	_ = f.SetCell(1, "date", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	_ = f.SetCell(1, "personName", "Ada Lovelace")

	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := WriteAll(path, f); err != nil {
		t.Fatal(err)
	}

	in, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = in.Close() }()
	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines: got %d", len(lines))
	}
	// decimal must appear as a raw number at full scale, not a float render
	if !strings.Contains(lines[0], `"finalWorth":1234.56789012`) {
		t.Fatalf("decimal render: %s", lines[0])
	}
	dec := json.NewDecoder(strings.NewReader(lines[1]))
	dec.UseNumber()
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		t.Fatal(err)
	}
	if row["personName"] != "Ada Lovelace" || row["date"] != "2024-01-02" {
		t.Fatalf("row 2: %v", row)
	}
	if _, present := row["finalWorth"]; present {
		t.Fatal("null cell should omit its key")
	}
}
