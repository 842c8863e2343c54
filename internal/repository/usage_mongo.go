package repository

import (
	"context"

	"github.com/chatda/chatda-api/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UsageMongo persists usage telemetry: one document per turn in "usage_logs"
// and one per surfaced product in "item_hits".
type UsageMongo struct {
	logCol *mongo.Collection
	hitCol *mongo.Collection
}

// NewUsageRepository wires the collections.
func NewUsageRepository(db *mongo.Database) *UsageMongo {
	return &UsageMongo{
		logCol: db.Collection("usage_logs"),
		hitCol: db.Collection("item_hits"),
	}
}

// RecordUsage inserts the turn's usage log.
func (r *UsageMongo) RecordUsage(ctx context.Context, entry models.UsageLog) error {
	_, err := r.logCol.InsertOne(ctx, entry)
	return err
}

// RecordItemHit inserts one item hit.
func (r *UsageMongo) RecordItemHit(ctx context.Context, hit models.ItemHit) error {
	_, err := r.hitCol.InsertOne(ctx, hit)
	return err
}
