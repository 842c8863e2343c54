package handler

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/chatda/chatda-api/internal/models"
	"github.com/chatda/chatda-api/internal/service"
)

// FeedbackHandler wires HTTP → FeedbackService.
type FeedbackHandler struct {
	svc      service.FeedbackService
	validate *validator.Validate
	logger   *log.Logger
}

// NewFeedbackHandler creates a FeedbackHandler instance.
func NewFeedbackHandler(svc service.FeedbackService, validate *validator.Validate, logger *log.Logger) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, validate: validate, logger: logger}
}

// Register mounts POST /chat/feedback on the given router.
func (h *FeedbackHandler) Register(r fiber.Router) {
	r.Post("/chat/feedback", h.feedback)
}

// feedback handles POST /chat/feedback  { "uuid", "createdAt", "content" }.
// A well-formed payload is always acknowledged; storage failures are only logged.
func (h *FeedbackHandler) feedback(c *fiber.Ctx) error {
	var req models.FeedbackRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.svc.Submit(c.UserContext(), req); err != nil {
		h.logger.Printf("[Feedback] session %s: %v", req.UUID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}
