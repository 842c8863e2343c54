package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/chatda/chatda-api/internal/service"
)

// RegisterRoutes mounts the chat and feedback endpoints.
func RegisterRoutes(app *fiber.App,
	chatSvc service.ChatService,
	feedbackSvc service.FeedbackService,
	relay *service.Relay,
	logger *log.Logger,
) {
	validate := NewValidator()
	NewChatHandler(chatSvc, relay, validate, logger).Register(app)
	NewFeedbackHandler(feedbackSvc, validate, logger).Register(app)
}
