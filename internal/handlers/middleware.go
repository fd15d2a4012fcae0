package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "interview_session"

	// DefaultSessionID is used by callers that never identify themselves.
	DefaultSessionID = "default"

	sessionLocalKey   = "session_id"
	requestIDLocalKey = "requestid"
)

// Session resolves the caller's session ID from the X-Session-ID header or
// the session cookie. Callers with neither share DefaultSessionID.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = c.Cookies(SessionCookie)
		}
		if id == "" {
			id = DefaultSessionID
		}

		c.Locals(sessionLocalKey, id)
		c.Set(SessionHeader, id)
		c.SetUserContext(logger.AddFields(c.UserContext(), zap.String("session_id", id)))
		return c.Next()
	}
}

// SessionID returns the ID resolved by the Session middleware.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalKey).(string)
	return id
}

// RequestLogger stores a request scoped logger in the user context and logs
// the start and end of each request. It expects the requestid middleware to
// run first.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals(requestIDLocalKey).(string)

		reqLogger := log.With(zap.String("request_id", requestID))
		c.SetUserContext(ctxzap.ToContext(c.UserContext(), reqLogger))

		reqLogger.Debug("Start handle HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
		)

		err := c.Next()

		reqLogger.Info("Finish handle HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return err
	}
}
