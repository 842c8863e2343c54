package handler

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/chatda/chatda-api/internal/models"
	"github.com/chatda/chatda-api/internal/service"
)

// ChatHandler wires HTTP → ChatService and the stream relay.
type ChatHandler struct {
	svc      service.ChatService
	relay    *service.Relay
	validate *validator.Validate
	logger   *log.Logger
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.ChatService, relay *service.Relay, validate *validator.Validate, logger *log.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, relay: relay, validate: validate, logger: logger}
}

// Register mounts the chat endpoints on the supplied router.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
	r.Post("/chat/stream", h.stream)
	r.Post("/chat/search", h.search)
}

// chat handles POST /chat  { "uuid": "...", "content": "..." } and answers a
// single JSON envelope.
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	start := time.Now()
	var req models.ChatRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.UserContext())
	defer cancel()

	turn, err := h.dispatch(ctx, req)
	if err != nil {
		return err
	}

	content, err := turn.Result.Answer.Collect(ctx)
	if err != nil {
		h.logger.Printf("[Chat] collect answer for session %s: %v", req.UUID, err)
		return ServerError()
	}

	entry := h.relay.NewUsageLog(req, turn, start)
	entry.SystemMessage = content
	h.relay.Record(ctx, turn, entry)

	return c.Status(fiber.StatusCreated).JSON(turn.Envelope.WithContent(content))
}

// stream handles POST /chat/stream with the same body as /chat and answers
// text/event-stream frames.
func (h *ChatHandler) stream(c *fiber.Ctx) error {
	start := time.Now()
	var req models.ChatRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	// The body is written after this handler returns, so the stream owns ctx.
	ctx, cancel := context.WithCancel(c.UserContext())
	turn, err := h.dispatch(ctx, req)
	if err != nil {
		cancel()
		return err
	}
	entry := h.relay.NewUsageLog(req, turn, start)

	c.Set(fiber.HeaderContentType, "text/event-stream; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
	c.Status(fiber.StatusCreated)

	conn := newStreamConn(c.Context().Conn())
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for frame := range h.relay.Stream(ctx, conn, turn, entry) {
			// After a failed write the cancelled relay stops on its own; the
			// remaining frames are only drained so its goroutine can exit.
			if conn.gone.Load() {
				continue
			}
			if err := writeFrame(w, frame); err != nil {
				conn.gone.Store(true)
				cancel()
			}
		}
	})
	return nil
}

// search handles POST /chat/search  { "uuid": "...", "content": "..." }
func (h *ChatHandler) search(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.UserContext())
	defer cancel()

	env, err := h.svc.Search(ctx, req)
	if err != nil {
		h.logger.Printf("[Search] session %s: %v", req.UUID, err)
		return ServerError()
	}
	return c.Status(fiber.StatusOK).JSON(env)
}

// dispatch maps service failures onto the client-facing error bodies.
func (h *ChatHandler) dispatch(ctx context.Context, req models.ChatRequest) (service.Turn, error) {
	turn, err := h.svc.Chat(ctx, req)
	switch {
	case err == nil:
		return turn, nil
	case errors.Is(err, service.ErrUnknownType):
		h.logger.Printf("[Chat] session %s: %v", req.UUID, err)
		return turn, ContentError()
	default:
		h.logger.Printf("[Chat] session %s: %v", req.UUID, err)
		return turn, ServerError()
	}
}

// streamConn reports the client as gone once a write has failed or the peer has
// closed its end of the socket.
type streamConn struct {
	sock net.Conn // nil for transports that cannot be probed (in-memory, TLS)
	gone atomic.Bool
}

func newStreamConn(c net.Conn) *streamConn {
	s := &streamConn{}
	if _, ok := c.(syscall.Conn); ok {
		s.sock = c
	}
	return s
}

func (s *streamConn) Disconnected() bool {
	if s.gone.Load() {
		return true
	}
	if s.sock != nil && peerClosed(s.sock) {
		s.gone.Store(true)
	}
	return s.gone.Load()
}

// probeWait bounds the liveness read. A deadline already in the past would
// fail before the socket is read at all.
const probeWait = time.Millisecond

// peerClosed does a short read on c. The request body has been consumed, so a
// live client sends nothing and the read times out; EOF or a reset means the
// client went away.
func peerClosed(c net.Conn) bool {
	if err := c.SetReadDeadline(time.Now().Add(probeWait)); err != nil {
		return false
	}
	defer c.SetReadDeadline(time.Time{})

	var b [1]byte
	_, err := c.Read(b[:])
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	return true
}

func writeFrame(w *bufio.Writer, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return err
	}
	return w.Flush()
}
