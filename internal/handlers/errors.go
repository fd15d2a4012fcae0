package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/models"
)

// StatusFor maps the service error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	var (
		fiberErr *fiber.Error
		vErr     *models.ValidationError
		nfErr    *models.NotFoundError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest
	case errors.As(err, &nfErr):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the app level fallback for errors no handler answered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		ctxzap.Extract(c.UserContext()).Error("unhandled request error", zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}

// respondFailure answers with message and the underlying error as details.
// Validation errors keep their own message and a 400.
func respondFailure(c *fiber.Ctx, message string, err error) error {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return respondError(c, fiber.StatusBadRequest, vErr.Message)
	}

	ctxzap.Extract(c.UserContext()).Error(message, zap.Error(err))
	return c.Status(StatusFor(err)).JSON(models.ErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
}

func fileTooLargeMessage(maxFileSize int64) string {
	return fmt.Sprintf("File too large. Max size: %d bytes", maxFileSize)
}
