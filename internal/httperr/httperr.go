package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/neuralert/stroke-risk-backend/internal/logger"
)

// Body is the error envelope every endpoint returns on failure.
type Body struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func New(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(Body{
		Error:      title,
		Message:    message,
		StatusCode: status,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return New(c, fiber.StatusBadRequest, "Bad Request", message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return New(c, fiber.StatusUnauthorized, "Unauthorized", message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return New(c, fiber.StatusNotFound, "Not Found", message)
}

func Internal(c *fiber.Ctx) error {
	return New(c, fiber.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}

// Handler is the fiber app-level error handler. Unhandled errors (including
// panics surfaced by the recover middleware) are logged and collapsed into
// the generic 500 envelope; fiber routing errors keep their status.
func Handler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "path", c.Path(), "method", c.Method(), "error", err)
			return Internal(c)
		}
		return New(c, code, utils.StatusMessage(code), err.Error())
	}
}
