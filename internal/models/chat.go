package models

import "time"

// ChatRequest is the payload for POST /chat, /chat/stream and /chat/search.
type ChatRequest struct {
	UUID    string `json:"uuid"    validate:"required"` // client session id
	Content string `json:"content" validate:"required"` // user's utterance
}

// FeedbackRequest is the payload for POST /chat/feedback.
type FeedbackRequest struct {
	UUID      string `json:"uuid"      validate:"required"`
	CreatedAt string `json:"createdAt" validate:"required"`
	Content   string `json:"content"   validate:"required"`
}

// Feedback is the stored form of a FeedbackRequest.
type Feedback struct {
	ID         string    `bson:"_id"         json:"id"`
	SessionID  string    `bson:"uuid"        json:"uuid"`
	CreatedAt  string    `bson:"created_at"  json:"createdAt"` // as sent by the client
	Content    string    `bson:"content"     json:"content"`
	ReceivedAt time.Time `bson:"received_at" json:"receivedAt"`
}

// UsageLog is the per-turn telemetry record written after a response has been delivered.
type UsageLog struct {
	ID            string       `bson:"_id"                    json:"id"`
	SessionID     string       `bson:"uuid"                   json:"uuid"`
	StartedAt     time.Time    `bson:"started_at"             json:"started_at"`
	LatencyMS     int64        `bson:"latency_ms"             json:"latency_ms"`
	Type          ResponseType `bson:"type"                   json:"type"`
	UserMessage   string       `bson:"user_message"           json:"user_message"`
	SystemMessage string       `bson:"system_message"         json:"system_message"`
	ModelNoList   []string     `bson:"model_no_list"          json:"model_no_list"` // at most MaxCandidates entries
	Disconnected  bool         `bson:"disconnected,omitempty" json:"disconnected,omitempty"`
}

// ItemHit records that a candidate product was surfaced for a turn.
type ItemHit struct {
	ModelNo   string       `bson:"model_no"   json:"model_no"`
	SessionID string       `bson:"uuid"       json:"uuid"`
	Type      ResponseType `bson:"type"       json:"type"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}
