package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorDetail is one entry of an error body: {"detail": [ErrorDetail, …]}.
type ErrorDetail struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc,omitempty"`
	Msg   string   `json:"msg"`
	Input any      `json:"input,omitempty"`
}

// DetailError is an HTTP error rendered with a structured detail list.
type DetailError struct {
	Status int
	Detail []ErrorDetail
}

func (e *DetailError) Error() string {
	msgs := make([]string, len(e.Detail))
	for i, d := range e.Detail {
		msgs[i] = d.Msg
	}
	return strings.Join(msgs, "; ")
}

// contentInput echoes the expected shape of the offending field.
var contentInput = map[string]string{"content": "string"}

// ContentError is returned when the engine declares a type we cannot shape.
func ContentError() *DetailError {
	return &DetailError{
		Status: fiber.StatusBadRequest,
		Detail: []ErrorDetail{{Type: "error", Msg: "Content error", Input: contentInput}},
	}
}

// ServerError is the generic 500 body; the cause stays in the server log.
func ServerError() *DetailError {
	return &DetailError{
		Status: fiber.StatusInternalServerError,
		Detail: []ErrorDetail{{Type: "error", Msg: "Server Error", Input: contentInput}},
	}
}

// validationError converts validator failures into a 422 body naming each field.
func validationError(err error) *DetailError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &DetailError{
			Status: fiber.StatusUnprocessableEntity,
			Detail: []ErrorDetail{{Type: "invalid", Loc: []string{"body"}, Msg: err.Error()}},
		}
	}
	detail := make([]ErrorDetail, len(verrs))
	for i, fe := range verrs {
		detail[i] = ErrorDetail{
			Type: "missing",
			Loc:  []string{"body", fe.Field()},
			Msg:  "Field required",
		}
	}
	return &DetailError{Status: fiber.StatusUnprocessableEntity, Detail: detail}
}

// ErrorHandler renders every error returned by a handler as a detail body.
// Errors that are not DetailError or fiber.Error are logged and hidden behind
// the generic server error.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *DetailError
		if errors.As(err, &de) {
			return c.Status(de.Status).JSON(fiber.Map{"detail": de.Detail})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"detail": []ErrorDetail{{Type: "error", Msg: fe.Message}},
			})
		}

		logger.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		se := ServerError()
		return c.Status(se.Status).JSON(fiber.Map{"detail": se.Detail})
	}
}
