package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into out and validates it.
func parseBody(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &DetailError{
			Status: fiber.StatusUnprocessableEntity,
			Detail: []ErrorDetail{{Type: "json_invalid", Loc: []string{"body"}, Msg: "invalid JSON body"}},
		}
	}
	if err := v.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}
