package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatda/chatda-api/internal/models"
)

type captureFeedback struct {
	got []models.Feedback
	err error
}

func (r *captureFeedback) Insert(_ context.Context, f models.Feedback) error {
	r.got = append(r.got, f)
	return r.err
}

func TestFeedbackSubmit(t *testing.T) {
	repo := &captureFeedback{}
	svc := NewFeedbackService(repo, discardLogger())

	req := models.FeedbackRequest{UUID: "u1", CreatedAt: "2025-07-01T10:00:00", Content: "great"}
	require.NoError(t, svc.Submit(context.Background(), req))

	require.Len(t, repo.got, 1)
	f := repo.got[0]
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "u1", f.SessionID)
	assert.Equal(t, "2025-07-01T10:00:00", f.CreatedAt)
	assert.Equal(t, "great", f.Content)
	assert.False(t, f.ReceivedAt.IsZero())
}

func TestFeedbackSubmitWithoutRepository(t *testing.T) {
	svc := NewFeedbackService(nil, discardLogger())
	assert.NoError(t, svc.Submit(context.Background(), models.FeedbackRequest{UUID: "u1"}))
}

func TestFeedbackSubmitError(t *testing.T) {
	svc := NewFeedbackService(&captureFeedback{err: assert.AnError}, discardLogger())
	assert.ErrorIs(t, svc.Submit(context.Background(), models.FeedbackRequest{UUID: "u1"}), assert.AnError)
}
