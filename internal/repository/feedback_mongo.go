package repository

import (
	"context"
	"log"

	"github.com/chatda/chatda-api/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// FeedbackRepository provides Mongo-backed persistence for chat feedback.
type FeedbackRepository struct {
	col    *mongo.Collection
	logger *log.Logger
}

// NewFeedbackRepository returns a FeedbackRepository that operates on the "feedback" collection.
func NewFeedbackRepository(db *mongo.Database, logger *log.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		col:    db.Collection("feedback"),
		logger: logger,
	}
}

// Insert stores one feedback record.
func (r *FeedbackRepository) Insert(ctx context.Context, f models.Feedback) error {
	if _, err := r.col.InsertOne(ctx, f); err != nil {
		r.logger.Printf("[Feedback Repository] Error inserting feedback %s for session %s: %v", f.ID, f.SessionID, err)
		return err
	}
	r.logger.Printf("[Feedback Repository] Stored feedback %s for session %s", f.ID, f.SessionID)
	return nil
}
