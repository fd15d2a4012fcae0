package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

type AppConfig struct {
	Name        string
	BodyLimit   int
	CORSOrigins string
}

// NewApp builds the Fiber app with the middleware every route shares.
func NewApp(cfg AppConfig, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	return app
}

// corsConfig allows credentials, and with them the session cookie, only for
// an explicit origin list. Fiber rejects credentials with a wildcard origin.
func corsConfig(origins string) cors.Config {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, " + SessionHeader,
		ExposeHeaders:    SessionHeader,
		AllowCredentials: origins != "*",
	}
}
