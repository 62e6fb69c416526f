package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

const historyCollection = "history_data"

// HistoryRepository stores approval events as documents keyed by the legacy
// ledger column names, so exports from either backend line up.
type HistoryRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewHistoryRepository connects to MongoDB and returns the ledger.
func NewHistoryRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*HistoryRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return newHistoryRepository(ctx, client, dbName, logger)
}

// newHistoryRepository verifies the connection and takes ownership of client.
// The client is disconnected when the ping fails.
func newHistoryRepository(ctx context.Context, client *mongo.Client, dbName string, logger *zap.Logger) (*HistoryRepository, error) {
	if err := client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			logger.Warn("mongodb disconnect after failed ping", zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &HistoryRepository{
		client:   client,
		dbName:   dbName,
		collName: historyCollection,
		logger:   logger,
	}, nil
}

func (r *HistoryRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// EnsureIndexes creates the approved_at index the range query sorts on.
func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: models.EventApprovedAt, Value: -1}, {Key: models.EventMarketID, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

// Append inserts one event document.
func (r *HistoryRepository) Append(ctx context.Context, event models.ApprovalEvent) error {
	if _, err := r.collection().InsertOne(ctx, toDocument(event)); err != nil {
		return fmt.Errorf("failed to insert history event: %w", err)
	}
	return nil
}

// Query returns events approved inside q, newest first.
func (r *HistoryRepository) Query(ctx context.Context, q models.HistoryQuery) ([]models.ApprovalEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: models.EventApprovedAt, Value: -1}})

	cursor, err := r.collection().Find(ctx, historyFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	events := make([]models.ApprovalEvent, len(docs))
	for i, doc := range docs {
		events[i] = fromDocument(doc)
	}

	r.logger.Debug("history queried", zap.Int("events", len(events)))
	return events, nil
}

// Close closes the MongoDB connection.
func (r *HistoryRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(event models.ApprovalEvent) bson.D {
	doc := make(bson.D, 0, len(models.LedgerColumns))
	for _, col := range models.LedgerColumns {
		doc = append(doc, bson.E{Key: col.Physical, Value: event.Field(col.Canonical)})
	}
	return doc
}

func fromDocument(doc bson.M) models.ApprovalEvent {
	var event models.ApprovalEvent
	for _, col := range models.LedgerColumns {
		v := doc[col.Physical]
		if dt, ok := v.(primitive.DateTime); ok {
			v = dt.Time().UTC()
		}
		event.SetField(col.Canonical, v)
	}
	return event
}

func historyFilter(q models.HistoryQuery) bson.D {
	filter := bson.D{{Key: models.EventApprovedAt, Value: bson.D{
		{Key: "$gte", Value: q.From},
		{Key: "$lte", Value: q.Until},
	}}}
	if q.MarketID != "" {
		filter = append(filter, bson.E{Key: models.EventMarketID, Value: q.MarketID})
	}
	return filter
}
