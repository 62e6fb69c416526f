package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

func TestDocumentRoundTrip(t *testing.T) {
	event := models.ApprovalEvent{
		MarketID:               "EAST",
		Company:                "Acme",
		ItemDescription:        "Widget",
		UnitCost:               12.5,
		TotalStock:             15,
		OriginalRecommendedQty: "10",
		OrderQty:               12,
		TotalCost:              150,
		RecommendedShipping:    "GROUND",
		ApprovedBy:             "east_user",
		ApprovedAt:             time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC),
		Comments:               "rush",
	}

	doc := toDocument(event)
	require.Len(t, doc, len(models.LedgerColumns))
	assert.Equal(t, "marketid", doc[0].Key)
	assert.Equal(t, "Total_Stock", doc[4].Key)
	assert.Equal(t, "Original_Recomr", doc[5].Key)
	assert.Equal(t, "Recommended_", doc[8].Key)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.Equal(t, event, fromDocument(decoded))
}

func TestFromDocument_MissingFieldsDefault(t *testing.T) {
	event := fromDocument(bson.M{"marketid": "WEST", "Order_Qty": int32(3)})

	assert.Equal(t, "WEST", event.MarketID)
	assert.Equal(t, int64(3), event.OrderQty)
	assert.Equal(t, "", event.Comments)
	assert.True(t, event.ApprovedAt.IsZero())
}

func TestHistoryFilter(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	unrestricted := historyFilter(models.HistoryQuery{From: from, Until: until})
	require.Len(t, unrestricted, 1)
	assert.Equal(t, "approved_at", unrestricted[0].Key)
	assert.Equal(t, bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: until}}, unrestricted[0].Value)

	scoped := historyFilter(models.HistoryQuery{From: from, Until: until, MarketID: "EAST"})
	require.Len(t, scoped, 2)
	assert.Equal(t, bson.E{Key: "marketid", Value: "EAST"}, scoped[1])
}

func TestNewHistoryRepository_DisconnectsWhenPingFails(t *testing.T) {
	ctx := context.Background()
	// Nothing listens on port 1; Connect is lazy so only Ping reaches the server.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)

	repo, err := newHistoryRepository(ctx, client, "inventory", zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.Contains(t, err.Error(), "failed to ping mongodb")

	assert.ErrorIs(t, client.Disconnect(ctx), mongo.ErrClientDisconnected)
}
