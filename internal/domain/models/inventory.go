package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Canonical column names of the inventory header contract.
const (
	ColDate                 = "Date"
	ColMarketID             = "Marketid"
	ColCustomerNumber       = "custno"
	ColCompany              = "company"
	ColItemCode             = "Item"
	ColStatus               = "Status"
	ColItemDescription      = "Itmdesc"
	ColInStock              = "In_Stock"
	ColInTransit            = "In_Transit"
	ColTotalStock           = "Total_Stock"
	ColUnitCost             = "cost"
	ColAllocations          = "Allocations"
	ColWeek1Qty             = "W1"
	ColWeek2Qty             = "W2"
	ColWeek3Qty             = "W3"
	ColLast30DaysQty        = "30_days"
	ColOvernightQty         = "OVERNIGHT"
	ColOvernightReorderCost = "To_Order_Cost_Overnight"
	ColTwoDayQty            = "2_DAY_SHIP"
	ColTwoDayReorderCost    = "To_Order_Cost_2DAY"
	ColGroundQty            = "GROUND"
	ColGroundReorderCost    = "To_Order_Cost_GROUND"
	ColRecommendedQuantity  = "Recommended Quntitty"
	ColRecommendedShipping  = "Recommended Shipping"
)

// InventoryColumn binds one header contract column to the record field holding it.
type InventoryColumn struct {
	Name  string
	field func(*InventoryRecord) any
}

// InventoryColumns is the header contract with its record fields, in contract order.
var InventoryColumns = []InventoryColumn{
	{Name: ColDate, field: func(r *InventoryRecord) any { return &r.Date }},
	{Name: ColMarketID, field: func(r *InventoryRecord) any { return &r.MarketID }},
	{Name: ColCustomerNumber, field: func(r *InventoryRecord) any { return &r.CustomerNumber }},
	{Name: ColCompany, field: func(r *InventoryRecord) any { return &r.Company }},
	{Name: ColItemCode, field: func(r *InventoryRecord) any { return &r.ItemCode }},
	{Name: ColStatus, field: func(r *InventoryRecord) any { return &r.Status }},
	{Name: ColItemDescription, field: func(r *InventoryRecord) any { return &r.ItemDescription }},
	{Name: ColInStock, field: func(r *InventoryRecord) any { return &r.InStock }},
	{Name: ColInTransit, field: func(r *InventoryRecord) any { return &r.InTransit }},
	{Name: ColTotalStock, field: func(r *InventoryRecord) any { return &r.TotalStock }},
	{Name: ColUnitCost, field: func(r *InventoryRecord) any { return &r.UnitCost }},
	{Name: ColAllocations, field: func(r *InventoryRecord) any { return &r.Allocations }},
	{Name: ColWeek1Qty, field: func(r *InventoryRecord) any { return &r.Week1Qty }},
	{Name: ColWeek2Qty, field: func(r *InventoryRecord) any { return &r.Week2Qty }},
	{Name: ColWeek3Qty, field: func(r *InventoryRecord) any { return &r.Week3Qty }},
	{Name: ColLast30DaysQty, field: func(r *InventoryRecord) any { return &r.Last30DaysQty }},
	{Name: ColOvernightQty, field: func(r *InventoryRecord) any { return &r.OvernightQty }},
	{Name: ColOvernightReorderCost, field: func(r *InventoryRecord) any { return &r.OvernightReorderCost }},
	{Name: ColTwoDayQty, field: func(r *InventoryRecord) any { return &r.TwoDayQty }},
	{Name: ColTwoDayReorderCost, field: func(r *InventoryRecord) any { return &r.TwoDayReorderCost }},
	{Name: ColGroundQty, field: func(r *InventoryRecord) any { return &r.GroundQty }},
	{Name: ColGroundReorderCost, field: func(r *InventoryRecord) any { return &r.GroundReorderCost }},
	{Name: ColRecommendedQuantity, field: func(r *InventoryRecord) any { return &r.RecommendedQuantity }},
	{Name: ColRecommendedShipping, field: func(r *InventoryRecord) any { return &r.RecommendedShipping }},
}

// HeaderContract is the fixed, ordered column list every inventory row exposes.
var HeaderContract = inventoryNames()

var inventoryIndex = inventoryPositions()

func inventoryNames() []string {
	out := make([]string, len(InventoryColumns))
	for i, col := range InventoryColumns {
		out[i] = col.Name
	}
	return out
}

func inventoryPositions() map[string]int {
	out := make(map[string]int, len(InventoryColumns))
	for i, col := range InventoryColumns {
		out[col.Name] = i
	}
	return out
}

// Header returns a copy of HeaderContract safe for callers to keep.
func Header() []string {
	out := make([]string, len(HeaderContract))
	copy(out, HeaderContract)
	return out
}

// InventoryRecord is one market/item/day row in canonical form.
type InventoryRecord struct {
	Date            CalendarDate
	MarketID        string
	CustomerNumber  string
	Company         string
	ItemCode        string
	Status          string
	ItemDescription string

	InStock       int64
	InTransit     int64
	TotalStock    int64
	Allocations   int64
	Week1Qty      int64
	Week2Qty      int64
	Week3Qty      int64
	Last30DaysQty int64
	OvernightQty  int64
	TwoDayQty     int64
	GroundQty     int64

	UnitCost             float64
	OvernightReorderCost float64
	TwoDayReorderCost    float64
	GroundReorderCost    float64

	RecommendedQuantity string
	RecommendedShipping string
}

// FieldRef returns a pointer to the field behind column name, or nil for an
// unknown column. The pointer is a *CalendarDate, *string, *int64 or *float64.
func (r *InventoryRecord) FieldRef(name string) any {
	i, ok := inventoryIndex[name]
	if !ok {
		return nil
	}
	return InventoryColumns[i].field(r)
}

// Cells returns the record values in HeaderContract order. The date is rendered MM/DD/YYYY.
func (r InventoryRecord) Cells() []any {
	out := make([]any, len(InventoryColumns))
	for i, col := range InventoryColumns {
		switch v := col.field(&r).(type) {
		case *CalendarDate:
			out[i] = v.US()
		case *string:
			out[i] = *v
		case *int64:
			out[i] = *v
		case *float64:
			out[i] = *v
		}
	}
	return out
}

// MarshalJSON encodes the record as an object keyed by the header contract, in contract order.
func (r InventoryRecord) MarshalJSON() ([]byte, error) {
	return marshalOrdered(HeaderContract, r.Cells())
}

// Snapshot is the response of a range query: the header contract plus canonical rows.
type Snapshot struct {
	Header []string          `json:"header"`
	Rows   []InventoryRecord `json:"rows"`
}

func marshalOrdered(keys []string, values []any) ([]byte, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("ordered object: %d keys for %d values", len(keys), len(values))
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
