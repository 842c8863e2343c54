package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chatda/chatda-api/internal/models"
)

// FeedbackRepository persists feedback records.
type FeedbackRepository interface {
	Insert(ctx context.Context, f models.Feedback) error
}

// FeedbackService accepts user feedback on earlier turns.
type FeedbackService interface {
	Submit(ctx context.Context, req models.FeedbackRequest) error
}

type feedbackService struct {
	repo   FeedbackRepository // nil when running without a database
	logger *log.Logger
}

// NewFeedbackService returns a FeedbackService. repo may be nil.
func NewFeedbackService(repo FeedbackRepository, logger *log.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: logger}
}

// Submit stores the feedback when a repository is configured.
func (s *feedbackService) Submit(ctx context.Context, req models.FeedbackRequest) error {
	f := models.Feedback{
		ID:         uuid.NewString(),
		SessionID:  req.UUID,
		CreatedAt:  req.CreatedAt,
		Content:    req.Content,
		ReceivedAt: time.Now().UTC(),
	}
	if s.repo == nil {
		s.logger.Printf("[Feedback] received %s for session %s (not persisted)", f.ID, f.SessionID)
		return nil
	}
	return s.repo.Insert(ctx, f)
}
