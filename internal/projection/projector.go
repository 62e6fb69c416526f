// Package projection maps heterogeneous inventory source rows onto the canonical
// header contract.
package projection

import (
	"strings"
	"time"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/coerce"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// SourceKind identifies which field-name dialect a SourceRow uses.
type SourceKind int

const (
	// RelationalRow rows carry lower/underscore column names from the inventory table.
	RelationalRow SourceKind = iota
	// DelimitedFileRow rows carry the display headers of the legacy flat file.
	DelimitedFileRow
)

func (k SourceKind) String() string {
	switch k {
	case RelationalRow:
		return "relational"
	case DelimitedFileRow:
		return "delimited_file"
	default:
		return "unknown"
	}
}

// SourceRow is one raw record keyed by its source's field names.
type SourceRow map[string]any

// Alias ties one canonical column to its relational column and file header spellings.
// The first file header is the current spelling; the rest are legacy variants.
type Alias struct {
	Canonical   string
	Relational  string
	FileHeaders []string
}

// aliases is the single declarative mapping consulted by both source paths. Its order
// is the header contract order.
var aliases = []Alias{
	{Canonical: models.ColDate, Relational: "date", FileHeaders: []string{"Date"}},
	{Canonical: models.ColMarketID, Relational: "marketid", FileHeaders: []string{"Marketid"}},
	{Canonical: models.ColCustomerNumber, Relational: "custno", FileHeaders: []string{"custno"}},
	{Canonical: models.ColCompany, Relational: "company", FileHeaders: []string{"company"}},
	{Canonical: models.ColItemCode, Relational: "item", FileHeaders: []string{"Item"}},
	{Canonical: models.ColStatus, Relational: "status", FileHeaders: []string{"Status"}},
	{Canonical: models.ColItemDescription, Relational: "itmdesc", FileHeaders: []string{"Itmdesc"}},
	{Canonical: models.ColInStock, Relational: "in_stock", FileHeaders: []string{"In_Stock"}},
	{Canonical: models.ColInTransit, Relational: "in_transit", FileHeaders: []string{"In_Transit"}},
	{Canonical: models.ColTotalStock, Relational: "total_stock", FileHeaders: []string{"Total_Stock", "Total _Stock"}},
	{Canonical: models.ColUnitCost, Relational: "cost", FileHeaders: []string{"cost"}},
	{Canonical: models.ColAllocations, Relational: "allocations", FileHeaders: []string{"Allocations"}},
	{Canonical: models.ColWeek1Qty, Relational: "w1", FileHeaders: []string{"W1"}},
	{Canonical: models.ColWeek2Qty, Relational: "w2", FileHeaders: []string{"W2"}},
	{Canonical: models.ColWeek3Qty, Relational: "w3", FileHeaders: []string{"W3"}},
	{Canonical: models.ColLast30DaysQty, Relational: "days_30", FileHeaders: []string{"30_days"}},
	{Canonical: models.ColOvernightQty, Relational: "overnight", FileHeaders: []string{"OVERNIGHT"}},
	{Canonical: models.ColOvernightReorderCost, Relational: "to_order_cost_overnight", FileHeaders: []string{"To_Order_Cost_Overnight"}},
	{Canonical: models.ColTwoDayQty, Relational: "two_day_ship", FileHeaders: []string{"2_DAY_SHIP"}},
	{Canonical: models.ColTwoDayReorderCost, Relational: "to_order_cost_2day", FileHeaders: []string{"To_Order_Cost_2DAY"}},
	{Canonical: models.ColGroundQty, Relational: "ground", FileHeaders: []string{"GROUND"}},
	{Canonical: models.ColGroundReorderCost, Relational: "to_order_cost_ground", FileHeaders: []string{"To_Order_Cost_GROUND"}},
	{Canonical: models.ColRecommendedQuantity, Relational: "recommended_quantity", FileHeaders: []string{"Recommended Quntitty", "Recommended Quantity"}},
	{Canonical: models.ColRecommendedShipping, Relational: "recommended_shipping", FileHeaders: []string{"Recommended Shipping"}},
}

// Aliases returns a copy of the mapping table in header contract order.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// RelationalColumn returns the relational column for a canonical header.
func RelationalColumn(canonical string) (string, bool) {
	for _, a := range aliases {
		if a.Canonical == canonical {
			return a.Relational, true
		}
	}
	return "", false
}

// CanonicalForFileHeader resolves a trimmed file header to its canonical column.
func CanonicalForFileHeader(header string) (string, bool) {
	header = strings.TrimSpace(header)
	for _, a := range aliases {
		for _, h := range a.FileHeaders {
			if h == header {
				return a.Canonical, true
			}
		}
	}
	return "", false
}

// Project maps row onto the canonical record. Fields missing from the row, or
// present with a null value, take their column default. Fields the table does not
// know about are ignored.
func Project(row SourceRow, kind SourceKind) models.InventoryRecord {
	var rec models.InventoryRecord
	for _, a := range aliases {
		v := lookup(row, a, kind)
		assign(&rec, a, v)
	}
	return rec
}

// ProjectAll projects every row with the same source kind.
func ProjectAll(rows []SourceRow, kind SourceKind) []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, Project(row, kind))
	}
	return out
}

// RelationalColumns maps a canonical record back onto relational column names.
// Column order follows the header contract.
func RelationalColumns(rec models.InventoryRecord) ([]string, []any) {
	cols := make([]string, len(aliases))
	vals := make([]any, len(aliases))
	for i, a := range aliases {
		cols[i] = a.Relational
		switch v := rec.FieldRef(a.Canonical).(type) {
		case *models.CalendarDate:
			if !v.IsZero() {
				vals[i] = v.In(time.UTC)
			}
		case *string:
			vals[i] = *v
		case *int64:
			vals[i] = *v
		case *float64:
			vals[i] = *v
		}
	}
	return cols, vals
}

func lookup(row SourceRow, a Alias, kind SourceKind) any {
	switch kind {
	case RelationalRow:
		return row[a.Relational]
	case DelimitedFileRow:
		for _, h := range a.FileHeaders {
			if v, ok := row[h]; ok {
				return v
			}
		}
	}
	return nil
}

// assign coerces v into whichever field the alias's canonical column names.
func assign(rec *models.InventoryRecord, a Alias, v any) {
	switch p := rec.FieldRef(a.Canonical).(type) {
	case *models.CalendarDate:
		*p = toDate(v)
	case *string:
		*p = coerce.String(v)
	case *int64:
		*p = coerce.Int(v)
	case *float64:
		*p = coerce.Float(v)
	}
}

// toDate accepts driver times and any of the flexible date text formats.
// Anything else becomes the zero date, rendered as an empty cell.
func toDate(v any) models.CalendarDate {
	switch val := v.(type) {
	case nil:
		return models.CalendarDate{}
	case time.Time:
		return models.DateOf(val)
	case models.CalendarDate:
		return val
	}

	text := coerce.String(v)
	if len(text) > 10 {
		if t, err := time.Parse(time.RFC3339, text); err == nil {
			return models.DateOf(t)
		}
	}
	d, err := daterange.ParseFlexibleDate(text)
	if err != nil {
		return models.CalendarDate{}
	}
	return d
}
