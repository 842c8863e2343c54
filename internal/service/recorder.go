package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/chatda/chatda-api/internal/models"
)

// Recorder is a sink for usage telemetry. Implementations must be safe for
// concurrent use by independent requests.
type Recorder interface {
	RecordUsage(ctx context.Context, entry models.UsageLog) error
	RecordItemHit(ctx context.Context, hit models.ItemHit) error
}

// LogRecorder writes each record as one JSON line through a *log.Logger.
// log.Logger serialises writes, so lines from concurrent requests never interleave.
type LogRecorder struct {
	logger *log.Logger
}

// NewLogRecorder returns a LogRecorder writing to logger.
func NewLogRecorder(logger *log.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

type usageLine struct {
	Kind string `json:"kind"`
	models.UsageLog
}

type hitLine struct {
	Kind string `json:"kind"`
	models.ItemHit
}

func (r *LogRecorder) RecordUsage(_ context.Context, entry models.UsageLog) error {
	return r.write(usageLine{Kind: "usage", UsageLog: entry})
}

func (r *LogRecorder) RecordItemHit(_ context.Context, hit models.ItemHit) error {
	return r.write(hitLine{Kind: "item_hit", ItemHit: hit})
}

func (r *LogRecorder) write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.logger.Println(string(b))
	return nil
}

// MultiRecorder fans records out to several recorders. Every recorder is
// attempted; the errors are joined.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordUsage(ctx context.Context, entry models.UsageLog) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordUsage(ctx, entry))
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) RecordItemHit(ctx context.Context, hit models.ItemHit) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordItemHit(ctx, hit))
	}
	return errors.Join(errs...)
}
