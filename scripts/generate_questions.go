package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

func main() {
	jobPath := flag.String("job", "", "path to the job description (.txt or .pdf)")
	resumePath := flag.String("resume", "", "path to the resume (.txt or .pdf)")
	provider := flag.String("provider", "", "generation provider (defaults to QUESTION_PROVIDER)")
	timeout := flag.Duration("timeout", 2*time.Minute, "generation timeout")
	flag.Parse()

	if *jobPath == "" || *resumePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println("🚀 Generating interview questions...")

	// Load configuration
	cfg := config.Load()
	if *provider == "" {
		*provider = cfg.Providers.QuestionProvider
	}

	gen, err := services.NewTextGenerator(context.Background(), *provider, cfg.Providers)
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s: %v", *provider, err)
	}

	jobDoc, err := loadDocument(*jobPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	resumeDoc, err := loadDocument(*resumePath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	interviews := services.NewInterviewService(
		repositories.NewSessionRepository(*timeout, time.Hour),
		services.NewDocumentExtractor(services.NewPDFParserService()),
		services.NewPromptBuilder(services.NewTextTruncator(cfg.Prompt.MaxDocumentTokens)),
		services.Generators{Questions: gen, Scoring: gen, AltScoring: gen},
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	prepared, err := interviews.PrepareInterview(ctx, "cli", jobDoc, resumeDoc)
	if err != nil {
		log.Fatalf("❌ Failed to generate questions: %v", err)
	}

	log.Printf("📄 Job description:\n%s", prepared.JobDescriptionSummary)
	if len(prepared.Questions) == 0 {
		log.Println("⚠️  No questions survived parsing")
		return
	}

	log.Printf("✅ %d questions generated using %s", len(prepared.Questions), gen.Name())
	var b strings.Builder
	for i, q := range prepared.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	fmt.Print(b.String())
}

func loadDocument(path string) (models.UploadedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	kind, err := services.ResolveKind("", data)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("%s: %w", path, err)
	}

	return models.UploadedDocument{
		Filename: filepath.Base(path),
		Kind:     kind,
		Data:     data,
	}, nil
}
