package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Version = "1.0.0"

type Handlers struct {
	Upload    *UploadHandler
	Session   *SessionHandler
	Analyze   *AnalyzeHandler
	Recording *RecordingHandler
}

// RegisterRoutes mounts the API under /api. Session resolution runs for /api
// routes only.
func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Coach API",
			"version": Version,
			"endpoints": []string{
				"POST /api/upload",
				"GET /api/job-description",
				"GET /api/questions",
				"POST /api/analyze-answer",
				"POST /api/analyze-answer-openai",
				"POST /api/analyze-transcript",
				"POST /api/save-recording",
			},
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api := app.Group("/api", Session())

	api.Post("/upload", h.Upload.HandleUpload)
	api.Get("/job-description", h.Session.HandleGetJobDescription)
	api.Get("/questions", h.Session.HandleGetQuestions)
	api.Post("/analyze-answer", h.Analyze.HandleAnalyzeAnswer)
	api.Post("/analyze-answer-openai", h.Analyze.HandleAnalyzeWithContext)
	api.Post("/analyze-transcript", h.Analyze.HandleAnalyzeTranscript)
	api.Post("/save-recording", h.Recording.HandleSaveRecording)
}
