package service

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/chatda/chatda-api/internal/models"
)

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

// fakeGenerator returns a fixed result and counts calls.
type fakeGenerator struct {
	result models.GenerationResult
	err    error
	calls  atomic.Int32
	search bool
}

func (g *fakeGenerator) Generate(_ context.Context, _ string, search bool) (models.GenerationResult, error) {
	g.calls.Add(1)
	g.search = search
	return g.result, g.err
}

// captureRecorder keeps everything it is given.
type captureRecorder struct {
	mu    sync.Mutex
	usage []models.UsageLog
	hits  []models.ItemHit
	err   error
}

func (r *captureRecorder) RecordUsage(_ context.Context, entry models.UsageLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = append(r.usage, entry)
	return r.err
}

func (r *captureRecorder) RecordItemHit(_ context.Context, hit models.ItemHit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, hit)
	return r.err
}

func (r *captureRecorder) snapshot() ([]models.UsageLog, []models.ItemHit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.UsageLog(nil), r.usage...), append([]models.ItemHit(nil), r.hits...)
}

// fakeConn reports a disconnect once it has been asked more than `after` times.
// after < 0 never disconnects.
type fakeConn struct {
	after int32
	asked atomic.Int32
}

func (c *fakeConn) Disconnected() bool {
	n := c.asked.Add(1)
	return c.after >= 0 && n > c.after
}

func connectedConn() *fakeConn { return &fakeConn{after: -1} }

type fakeLLM struct {
	typ       models.ResponseType
	classErr  error
	tokens    []string
	streamErr error // reported after tokens
	streamed  bool
	gotPrompt string
}

func (l *fakeLLM) Classify(context.Context, string) (models.ResponseType, error) {
	return l.typ, l.classErr
}

func (l *fakeLLM) Stream(_ context.Context, prompt string) (models.Answer, error) {
	l.streamed = true
	l.gotPrompt = prompt
	return models.TokenAnswer(tokenChan(l.tokens...), func() error { return l.streamErr }), nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type fakeSearcher struct {
	products []models.Product
	gotK     int
}

func (s *fakeSearcher) VectorSearch(_ context.Context, _ []float32, k int) ([]models.Product, error) {
	s.gotK = k
	return s.products, nil
}

func tokenChan(tokens ...string) <-chan string {
	ch := make(chan string, len(tokens))
	for _, t := range tokens {
		ch <- t
	}
	close(ch)
	return ch
}

func productsN(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ModelNo: "M" + string(rune('A'+i))}
	}
	return out
}
