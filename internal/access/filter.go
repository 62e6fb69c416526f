// Package access applies role based visibility to inventory and history data.
package access

import (
	"strings"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// AdminRole sees every market.
const AdminRole = "admin"

// Filter keeps the rows visible to role. Admin sees everything; any other role
// sees only rows whose market equals the role exactly.
func Filter(rows []models.InventoryRecord, role string) []models.InventoryRecord {
	if role == AdminRole {
		return rows
	}

	out := make([]models.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		if row.MarketID == role {
			out = append(out, row)
		}
	}
	return out
}

// Scope reports the market a history query must be restricted to. An empty or
// admin role is unrestricted.
func Scope(role string) (market string, restricted bool) {
	trimmed := strings.TrimSpace(role)
	if trimmed == "" || trimmed == AdminRole {
		return "", false
	}
	return trimmed, true
}
