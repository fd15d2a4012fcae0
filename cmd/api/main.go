package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/observability"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx := context.Background()
	observability.RegisterMetrics()

	// Initialize session store
	sessions := repositories.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
	zapLogger.Info("Session store initialized",
		zap.Duration("ttl", cfg.Session.TTL),
		zap.Duration("cleanup_interval", cfg.Session.CleanupInterval),
	)

	// Initialize generation providers
	generators := services.Generators{
		Questions:  buildGenerator(ctx, zapLogger, cfg.Providers, cfg.Providers.QuestionProvider, "generate_questions"),
		Scoring:    buildGenerator(ctx, zapLogger, cfg.Providers, cfg.Providers.ScoringProvider, "score_answer"),
		AltScoring: buildGenerator(ctx, zapLogger, cfg.Providers, cfg.Providers.AltScoringProvider, "score_answer_with_context"),
	}

	// Initialize services
	interviews := services.NewInterviewService(
		sessions,
		services.NewDocumentExtractor(services.NewPDFParserService()),
		services.NewPromptBuilder(services.NewTextTruncator(cfg.Prompt.MaxDocumentTokens)),
		generators,
		nil,
	)

	recordings, err := buildRecordingStore(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to initialize recording storage", zap.Error(err))
	}
	zapLogger.Info("Recording storage initialized", zap.String("backend", recordings.Backend()))

	// Create Fiber app
	app := handlers.NewApp(handlers.AppConfig{
		Name:        "Interview Coach API",
		BodyLimit:   int(2*cfg.Storage.MaxFileSize) + 1<<20,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, zapLogger)
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Upload:    handlers.NewUploadHandler(interviews, cfg.Storage.MaxFileSize),
		Session:   handlers.NewSessionHandler(interviews),
		Analyze:   handlers.NewAnalyzeHandler(interviews),
		Recording: handlers.NewRecordingHandler(recordings, cfg.Storage.MaxFileSize),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("Server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// buildGenerator never fails startup. A provider without credentials is
// replaced by one that reports the problem on every call.
func buildGenerator(ctx context.Context, zapLogger *zap.Logger, cfg config.ProvidersConfig, provider, operation string) services.TextGenerator {
	gen, err := services.NewTextGenerator(ctx, provider, cfg)
	if err != nil {
		zapLogger.Warn("Generation provider unavailable",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Error(err),
		)
		gen = services.NewUnavailableGenerator(provider, err)
	}
	return services.Instrument(gen, operation)
}

func buildRecordingStore(ctx context.Context, cfg config.StorageConfig) (services.RecordingStore, error) {
	if cfg.Backend == config.StorageS3 {
		client, err := services.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return services.NewS3RecordingStore(client, cfg.S3.Bucket), nil
	}
	return services.NewLocalRecordingStore(cfg.RecordingsPath)
}
