package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

func rows(markets ...string) []models.InventoryRecord {
	out := make([]models.InventoryRecord, len(markets))
	for i, m := range markets {
		out[i] = models.InventoryRecord{MarketID: m, ItemCode: "SKU"}
	}
	return out
}

func TestFilter(t *testing.T) {
	input := rows("EAST", "WEST", "EAST", "east")

	tests := []struct {
		name string
		role string
		want []models.InventoryRecord
	}{
		{name: "admin sees all", role: "admin", want: input},
		{name: "exact market", role: "EAST", want: rows("EAST", "EAST")},
		{name: "case sensitive", role: "east", want: rows("east")},
		{name: "unknown market", role: "NORTH", want: []models.InventoryRecord{}},
		{name: "admin is case sensitive", role: "Admin", want: []models.InventoryRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(input, tt.role))
		})
	}
}

func TestFilter_OnlyMatchingMarketsSurvive(t *testing.T) {
	for _, row := range Filter(rows("A", "B", "C", "A"), "A") {
		assert.Equal(t, "A", row.MarketID)
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		role           string
		wantMarket     string
		wantRestricted bool
	}{
		{role: "", wantMarket: "", wantRestricted: false},
		{role: "  ", wantMarket: "", wantRestricted: false},
		{role: "admin", wantMarket: "", wantRestricted: false},
		{role: " admin ", wantMarket: "", wantRestricted: false},
		{role: "WEST", wantMarket: "WEST", wantRestricted: true},
		{role: " WEST ", wantMarket: "WEST", wantRestricted: true},
	}

	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			market, restricted := Scope(tt.role)
			assert.Equal(t, tt.wantMarket, market)
			assert.Equal(t, tt.wantRestricted, restricted)
		})
	}
}

func TestCredentialTable_Authenticate(t *testing.T) {
	table := NewCredentialTable([]string{"EAST", "West", " "})
	assert.Equal(t, 3, table.Size())

	tests := []struct {
		name     string
		user     string
		password string
		role     string
		want     string
		wantErr  bool
	}{
		{name: "admin", user: "admin", password: "admin", role: "admin", want: "admin"},
		{name: "admin picks market", user: "admin", password: "admin", role: "EAST", wantErr: true},
		{name: "market user", user: "east_user", password: "password123", role: "EAST", want: "EAST"},
		{name: "mixed case market", user: "west_user", password: "password123", role: "West", want: "West"},
		{name: "market user picks other market", user: "east_user", password: "password123", role: "West", wantErr: true},
		{name: "market user picks admin", user: "east_user", password: "password123", role: "admin", wantErr: true},
		{name: "wrong password", user: "east_user", password: "nope", role: "EAST", wantErr: true},
		{name: "unknown user", user: "north_user", password: "password123", role: "NORTH", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Authenticate(tt.user, tt.password, tt.role)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentialTable_Refresh(t *testing.T) {
	table := NewCredentialTable(nil)
	_, err := table.Authenticate("east_user", "password123", "EAST")
	require.Error(t, err)

	table.Refresh([]string{"EAST"})
	role, err := table.Authenticate("east_user", "password123", "EAST")
	require.NoError(t, err)
	assert.Equal(t, "EAST", role)
}
