package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/coerce"
)

// ApprovalEvent is one operator approval. Events are immutable once written.
type ApprovalEvent struct {
	MarketID               string    `json:"marketid"`
	Company                string    `json:"company"`
	ItemDescription        string    `json:"itmdesc"`
	UnitCost               float64   `json:"cost"`
	TotalStock             int64     `json:"total_stock"`
	OriginalRecommendedQty string    `json:"original_recommended_qty"`
	OrderQty               int64     `json:"order_qty"`
	TotalCost              float64   `json:"total_cost"`
	RecommendedShipping    string    `json:"recommended_shipping"`
	ApprovedBy             string    `json:"approved_by"`
	ApprovedAt             time.Time `json:"approved_at"`
	Comments               string    `json:"comments"`
}

// LedgerColumn ties a canonical event field to its physical storage column and to
// the key older clients use when submitting approvals.
type LedgerColumn struct {
	Canonical string
	Physical  string
	Payload   string
	field     func(*ApprovalEvent) any
}

// Canonical event field names, as exposed by every read path.
const (
	EventMarketID               = "marketid"
	EventCompany                = "company"
	EventItemDescription        = "itmdesc"
	EventUnitCost               = "cost"
	EventTotalStock             = "total_stock"
	EventOriginalRecommendedQty = "original_recommended_qty"
	EventOrderQty               = "order_qty"
	EventTotalCost              = "total_cost"
	EventRecommendedShipping    = "recommended_shipping"
	EventApprovedBy             = "approved_by"
	EventApprovedAt             = "approved_at"
	EventComments               = "comments"
)

// LedgerColumns is the single alias table for the history ledger. Physical names
// are kept verbatim for compatibility with the existing history_data table.
var LedgerColumns = []LedgerColumn{
	{Canonical: EventMarketID, Physical: "marketid", Payload: "Marketid", field: func(e *ApprovalEvent) any { return &e.MarketID }},
	{Canonical: EventCompany, Physical: "company", Payload: "company", field: func(e *ApprovalEvent) any { return &e.Company }},
	{Canonical: EventItemDescription, Physical: "itmdesc", Payload: "Itmdesc", field: func(e *ApprovalEvent) any { return &e.ItemDescription }},
	{Canonical: EventUnitCost, Physical: "cost", Payload: "cost", field: func(e *ApprovalEvent) any { return &e.UnitCost }},
	{Canonical: EventTotalStock, Physical: "Total_Stock", Payload: "Total_Stock", field: func(e *ApprovalEvent) any { return &e.TotalStock }},
	{Canonical: EventOriginalRecommendedQty, Physical: "Original_Recomr", Payload: "Original_Recommended_Qty", field: func(e *ApprovalEvent) any { return &e.OriginalRecommendedQty }},
	{Canonical: EventOrderQty, Physical: "Order_Qty", Payload: "Order_Qty", field: func(e *ApprovalEvent) any { return &e.OrderQty }},
	{Canonical: EventTotalCost, Physical: "Total_Cost", Payload: "Total_Cost", field: func(e *ApprovalEvent) any { return &e.TotalCost }},
	{Canonical: EventRecommendedShipping, Physical: "Recommended_", Payload: "Recommended_Shipping", field: func(e *ApprovalEvent) any { return &e.RecommendedShipping }},
	{Canonical: EventApprovedBy, Physical: "Approved_By", Payload: "Approved_By", field: func(e *ApprovalEvent) any { return &e.ApprovedBy }},
	{Canonical: EventApprovedAt, Physical: "approved_at", Payload: "Approved_At", field: func(e *ApprovalEvent) any { return &e.ApprovedAt }},
	{Canonical: EventComments, Physical: "comments", Payload: "Comments", field: func(e *ApprovalEvent) any { return &e.Comments }},
}

// HistoryHeader lists the canonical event field names in export order.
func HistoryHeader() []string {
	out := make([]string, len(LedgerColumns))
	for i, col := range LedgerColumns {
		out[i] = col.Canonical
	}
	return out
}

var ledgerIndex = ledgerPositions()

func ledgerPositions() map[string]int {
	out := make(map[string]int, len(LedgerColumns))
	for i, col := range LedgerColumns {
		out[col.Canonical] = i
	}
	return out
}

func (e *ApprovalEvent) fieldRef(canonical string) any {
	i, ok := ledgerIndex[canonical]
	if !ok {
		return nil
	}
	return LedgerColumns[i].field(e)
}

// Field returns the event value stored under a canonical field name.
func (e ApprovalEvent) Field(canonical string) any {
	switch p := e.fieldRef(canonical).(type) {
	case *string:
		return *p
	case *int64:
		return *p
	case *float64:
		return *p
	case *time.Time:
		return *p
	}
	return nil
}

// SetField assigns a loosely typed value to the field named canonical.
// Unknown names are ignored.
func (e *ApprovalEvent) SetField(canonical string, v any) {
	switch p := e.fieldRef(canonical).(type) {
	case *string:
		*p = coerce.String(v)
	case *int64:
		*p = coerce.Int(v)
	case *float64:
		*p = coerce.Float(v)
	case *time.Time:
		switch t := v.(type) {
		case time.Time:
			*p = t
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				*p = parsed
			}
		}
	}
}

// Cells returns the event values in HistoryHeader order.
func (e ApprovalEvent) Cells() []any {
	out := make([]any, len(LedgerColumns))
	for i, col := range LedgerColumns {
		out[i] = e.Field(col.Canonical)
	}
	return out
}

// UnmarshalJSON accepts both the canonical field names and the legacy approval
// payload keys. Numbers may arrive as JSON numbers or numeric strings.
// A submitted approved_at is decoded but the ledger replaces it on Record.
func (e *ApprovalEvent) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode approval event: %w", err)
	}

	*e = ApprovalEvent{}
	for _, col := range LedgerColumns {
		v, ok := raw[col.Canonical]
		if !ok {
			v, ok = raw[col.Payload]
		}
		if !ok {
			continue
		}
		e.SetField(col.Canonical, v)
	}
	return nil
}

// HistoryQuery selects ledger rows. An empty MarketID means no market restriction.
type HistoryQuery struct {
	From     time.Time
	Until    time.Time
	MarketID string
}
