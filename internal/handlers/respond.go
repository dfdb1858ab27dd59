package handlers

import (
	"errors"
	"fmt"
	"log"

	"elever/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError converts any service error into the uniform response
// envelope. Application errors keep their status and message; anything else
// becomes a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"success": false,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(appErr.Status).JSON(body)
	}

	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Server error",
	})
}

// structValidationError converts validator field errors into a validation
// error carrying a per-field message map.
func structValidationError(err error) *apperrors.Error {
	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
		}
	}
	return apperrors.ValidationFields("Validation failed", fields)
}
