// Package dataset defines the billionaires and assets tables, the raw-record
// transformer that populates them, and the replace-by-date store.
package dataset

import (
	"fmt"

	w "github.com/wdm0006/worthwatch/pkg/worthwatch"
)

// Table names double as the persisted file stems.
const (
	TableBillionaires = "billionaires"
	TableAssets       = "assets"
)

// Billionaires is the per-person snapshot schema: one row per person per
// snapshot date. Worth figures are millions of US dollars at scale 8.
func Billionaires() w.Schema {
	return w.Schema{Columns: []w.ColumnSchema{
		{Name: "date", Type: w.KindDate},
		{Name: "personName", Type: w.KindCategorical, Nullable: true},
		{Name: "lastName", Type: w.KindCategorical, Nullable: true},
		{Name: "birthDate", Type: w.KindDate, Nullable: true},
		{Name: "gender", Type: w.KindCategorical, Nullable: true},
		{Name: "countryOfCitizenship", Type: w.KindCategorical, Nullable: true},
		{Name: "city", Type: w.KindCategorical, Nullable: true},
		{Name: "state", Type: w.KindCategorical, Nullable: true},
		{Name: "source", Type: w.KindCategorical, Nullable: true},
		{Name: "industries", Type: w.KindCategorical, Nullable: true},
		{Name: "finalWorth", Type: w.KindDecimal, Scale: 8, Nullable: true},
		{Name: "estWorthPrev", Type: w.KindDecimal, Scale: 8, Nullable: true},
		{Name: "archivedWorth", Type: w.KindDecimal, Scale: 8, Nullable: true},
		{Name: "privateAssetsWorth", Type: w.KindDecimal, Scale: 8, Nullable: true},
	}}
}

// Assets is the per-holding schema: zero or more rows per person per date,
// linked to Billionaires by personName only.
func Assets() w.Schema {
	return w.Schema{Columns: []w.ColumnSchema{
		{Name: "date", Type: w.KindDate},
		{Name: "personName", Type: w.KindCategorical, Nullable: true},
		{Name: "companyName", Type: w.KindCategorical, Nullable: true},
		{Name: "currencyCode", Type: w.KindCategorical, Nullable: true},
		{Name: "currentPrice", Type: w.KindDecimal, Scale: 11, Nullable: true},
		{Name: "exchange", Type: w.KindCategorical, Nullable: true},
		{Name: "exchangeRate", Type: w.KindDecimal, Scale: 8, Nullable: true},
		{Name: "exerciseOptionPrice", Type: w.KindDecimal, Scale: 11, Nullable: true},
		{Name: "interactive", Type: w.KindBool, Nullable: true},
		{Name: "numberOfShares", Type: w.KindDecimal, Scale: 2, Nullable: true},
		{Name: "sharePrice", Type: w.KindDecimal, Scale: 11, Nullable: true},
		{Name: "ticker", Type: w.KindCategorical, Nullable: true},
	}}
}

// SchemaFor returns the declared schema for a table name.
func SchemaFor(table string) (w.Schema, error) {
	switch table {
	case TableBillionaires:
		return Billionaires(), nil
	case TableAssets:
		return Assets(), nil
	default:
		return w.Schema{}, fmt.Errorf("unknown table: %s", table)
	}
}

// SortKeys returns the persisted sort order for a table.
func SortKeys(table string) []string {
	switch table {
	case TableBillionaires:
		return []string{"personName", "date"}
	case TableAssets:
		return []string{"personName", "companyName", "interactive", "date"}
	default:
		return nil
	}
}
