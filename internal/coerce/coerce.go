// Package coerce converts loosely typed source values (driver values, inferred
// file cells, decoded JSON) into the concrete types of the canonical schema.
package coerce

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Int converts v to an int64. Nil and unparseable values yield 0.
// Fractional values are truncated toward zero.
func Int(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(val)
	case float32:
		return int64(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return int64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	}

	s := String(v)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d.IntPart()
	}
	return 0
}

// Float converts v to a float64 through a numeric parse. Decimal text and driver
// numeric values are parsed with shopspring/decimal. Nil and unparseable values yield 0.
func Float(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return val
	case float32:
		return float64(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return float64(Int(val))
	case decimal.Decimal:
		return val.InexactFloat64()
	case decimal.NullDecimal:
		if !val.Valid {
			return 0
		}
		return val.Decimal.InexactFloat64()
	}

	s := String(v)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// String converts v to its trimmed text form. Nil yields "".
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case decimal.Decimal:
		return val.String()
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil || inner == nil {
			return ""
		}
		if _, nested := inner.(driver.Valuer); nested {
			return ""
		}
		return String(inner)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
