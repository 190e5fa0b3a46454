package api

import (
	"errors"
	"log/slog"

	"eyeai/internal/answer"
	"eyeai/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports missing or malformed request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrorHandler renders every error as {"error": message}. Validation
// problems are 400, fiber errors keep their code, everything else is 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var ve *ValidationError
		var fe *fiber.Error
		switch {
		case errors.As(err, &ve), errors.Is(err, answer.ErrUnsupportedLanguage):
			code = fiber.StatusBadRequest
		case errors.As(err, &fe):
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(models.ErrorResponse{Error: err.Error()})
	}
}
