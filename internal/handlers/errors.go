package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

// ErrorHandler maps handler errors to status codes. API routes answer with
// JSON, the HTML form routes with plain text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, services.ErrUnsupportedFormat):
		code = fiber.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrInvalidFilename):
		code = fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrBatchNotFound):
		code = fiber.StatusNotFound
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}

	return c.Status(code).SendString(err.Error())
}
