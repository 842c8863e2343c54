package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatda/chatda-api/internal/models"
)

// Conn is the client side of a stream.
type Conn interface {
	// Disconnected reports whether the client has gone away.
	Disconnected() bool
}

// Relay turns a Turn into text/event-stream frames and records usage once the
// answer has been delivered.
type Relay struct {
	recorder      Recorder
	tokenDelay    time.Duration // pause between character frames of a text answer
	maxCandidates int
	logger        *log.Logger
}

// NewRelay returns a Relay.
func NewRelay(recorder Recorder, tokenDelay time.Duration, maxCandidates int, logger *log.Logger) *Relay {
	return &Relay{
		recorder:      recorder,
		tokenDelay:    tokenDelay,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// NewUsageLog starts the usage record for turn. SystemMessage and latency are
// filled in when the turn is recorded.
func (r *Relay) NewUsageLog(req models.ChatRequest, turn Turn, startedAt time.Time) models.UsageLog {
	ids := turn.Result.Truncate(r.maxCandidates).CandidateIDs()
	return models.UsageLog{
		ID:          uuid.NewString(),
		SessionID:   req.UUID,
		StartedAt:   startedAt,
		Type:        turn.Result.Type,
		UserMessage: req.Content,
		ModelNoList: append([]string{}, ids...),
	}
}

// Stream produces the frames for turn on the returned channel, which is closed
// when the answer is exhausted, the client disconnects, or ctx is done.
//
// The first frame carries the envelope without content; every following frame
// is {"data": <token>}. A text answer is sent one character per frame with
// tokenDelay between frames; a token stream is forwarded as fast as it yields.
//
// If conn is already disconnected nothing is sent and nothing is recorded.
// Otherwise conn is checked before every frame, and the usage log is recorded
// once relaying stops, flagged when the client left early.
func (r *Relay) Stream(ctx context.Context, conn Conn, turn Turn, entry models.UsageLog) <-chan []byte {
	frames := make(chan []byte)
	go func() {
		defer close(frames)
		r.relay(ctx, conn, turn, entry, frames)
	}()
	return frames
}

func (r *Relay) relay(ctx context.Context, conn Conn, turn Turn, entry models.UsageLog, frames chan<- []byte) {
	answer := turn.Result.Answer
	if conn.Disconnected() || ctx.Err() != nil {
		r.logger.Printf("[Relay] session %s left before streaming started", entry.SessionID)
		drain(answer)
		return
	}

	head, err := encodeFrame(turn.Envelope.WithContent(""))
	if err != nil {
		r.logger.Printf("[Relay] encode envelope for session %s: %v", entry.SessionID, err)
		drain(answer)
		return
	}
	if !send(ctx, frames, head) {
		drain(answer)
		return
	}

	var sys strings.Builder
	complete := r.relayAnswer(ctx, conn, answer, frames, &sys)
	if !complete {
		r.logger.Printf("[Relay] session %s disconnected mid-stream", entry.SessionID)
	} else if err := answer.Err(); err != nil {
		r.logger.Printf("[Relay] answer for session %s ended early: %v", entry.SessionID, err)
	}

	entry.SystemMessage = sys.String()
	entry.Disconnected = !complete
	r.Record(context.WithoutCancel(ctx), turn, entry)
}

// relayAnswer reports whether the whole answer was sent.
func (r *Relay) relayAnswer(ctx context.Context, conn Conn, answer models.Answer, frames chan<- []byte, sys *strings.Builder) bool {
	emit := func(tok string) bool {
		if conn.Disconnected() {
			return false
		}
		frame, err := encodeFrame(tokenFrame{Data: tok})
		if err != nil || !send(ctx, frames, frame) {
			return false
		}
		sys.WriteString(tok)
		return true
	}

	if !answer.Streamed() {
		for i, ch := range answer.Text() {
			if i > 0 && !wait(ctx, r.tokenDelay) {
				return false
			}
			if !emit(string(ch)) {
				return false
			}
		}
		return true
	}

	tokens := answer.Tokens()
	for {
		select {
		case tok, ok := <-tokens:
			if !ok {
				return true
			}
			if !emit(tok) {
				drain(answer)
				return false
			}
		case <-ctx.Done():
			drain(answer)
			return false
		}
	}
}

// Record writes the usage log for a delivered turn and one item hit per
// candidate product. Failures are logged, never returned.
func (r *Relay) Record(ctx context.Context, turn Turn, entry models.UsageLog) {
	entry.LatencyMS = time.Since(entry.StartedAt).Milliseconds()
	if err := r.recorder.RecordUsage(ctx, entry); err != nil {
		r.logger.Printf("[Relay] record usage %s: %v", entry.ID, err)
	}

	now := time.Now().UTC()
	for _, p := range turn.Result.Products {
		hit := models.ItemHit{
			ModelNo:   p.ModelNo,
			SessionID: entry.SessionID,
			Type:      entry.Type,
			CreatedAt: now,
		}
		if err := r.recorder.RecordItemHit(ctx, hit); err != nil {
			r.logger.Printf("[Relay] record item hit %s: %v", p.ModelNo, err)
		}
	}
}

type tokenFrame struct {
	Data string `json:"data"`
}

// encodeFrame renders payload as one event-stream frame: "data: <json>\n\n".
func encodeFrame(payload any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	// Encode terminates with a single newline; the frame needs a blank line.
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func send(ctx context.Context, frames chan<- []byte, frame []byte) bool {
	select {
	case frames <- frame:
		return true
	case <-ctx.Done():
		return false
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
