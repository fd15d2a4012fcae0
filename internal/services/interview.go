package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/observability"
	"alfredoptarigan/interview-coach/internal/repositories"
)

const summaryLines = 10

type InterviewService interface {
	PrepareInterview(ctx context.Context, sessionID string, jobDoc, resumeDoc models.UploadedDocument) (*models.PreparedInterview, error)
	Questions(ctx context.Context, sessionID string) ([]string, error)
	JobDescription(ctx context.Context, sessionID string) (string, error)
	AnalyzeAnswer(ctx context.Context, sessionID, question, answer string) (*models.AnswerEvaluation, error)
	AnalyzeAnswerWithContext(ctx context.Context, input models.ScoringInput) (string, error)
	SummarizeInterview(ctx context.Context, transcript string) (string, error)
}

// Generators selects a provider per flow.
type Generators struct {
	Questions  TextGenerator
	Scoring    TextGenerator
	AltScoring TextGenerator
}

type interviewService struct {
	sessions      repositories.SessionRepository
	extractor     DocumentExtractor
	promptBuilder *PromptBuilder
	generators    Generators

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewInterviewService(
	sessions repositories.SessionRepository,
	extractor DocumentExtractor,
	promptBuilder *PromptBuilder,
	generators Generators,
	rng *rand.Rand,
) InterviewService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &interviewService{
		sessions:      sessions,
		extractor:     extractor,
		promptBuilder: promptBuilder,
		generators:    generators,
		rng:           rng,
	}
}

// PrepareInterview extracts both documents, stores them and replaces the
// session's questions with a freshly generated list. The session is only
// touched once both extractions succeed.
func (s *interviewService) PrepareInterview(ctx context.Context, sessionID string, jobDoc, resumeDoc models.UploadedDocument) (*models.PreparedInterview, error) {
	jobText, err := s.extractor.Extract(jobDoc)
	if err != nil {
		return nil, err
	}

	resumeText, err := s.extractor.Extract(resumeDoc)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "documents extracted",
		zap.Int("job_description_length", len(jobText)),
		zap.Int("resume_length", len(resumeText)),
	)
	s.sessions.SetDocuments(sessionID, jobText, resumeText)

	prompt := s.promptBuilder.BuildQuestionGenerationPrompt(jobText, resumeText)
	raw, err := s.generators.Questions.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	questions := ParseQuestions(raw, s.rng)
	s.rngMu.Unlock()

	observability.QuestionsGenerated.Observe(float64(len(questions)))
	if len(questions) == 0 {
		ctxzap.Warn(ctx, "no questions survived parsing", zap.Int("response_length", len(raw)))
	}
	s.sessions.SetQuestions(sessionID, questions)

	return &models.PreparedInterview{
		SessionID:             sessionID,
		Questions:             questions,
		JobDescriptionSummary: Summarize(jobText),
	}, nil
}

// Questions implements InterviewService.
func (s *interviewService) Questions(_ context.Context, sessionID string) ([]string, error) {
	return s.sessions.GetQuestions(sessionID)
}

// JobDescription implements InterviewService.
func (s *interviewService) JobDescription(_ context.Context, sessionID string) (string, error) {
	return s.sessions.GetJobDescription(sessionID)
}

// AnalyzeAnswer scores one answer against the session's documents. A session
// without documents is scored with empty context.
func (s *interviewService) AnalyzeAnswer(ctx context.Context, sessionID, question, answer string) (*models.AnswerEvaluation, error) {
	if question == "" || answer == "" {
		return nil, models.NewValidationError("Question and answer are required for analysis.")
	}

	jobText, resumeText, err := s.sessions.GetDocuments(sessionID)
	var nf *models.NotFoundError
	if err != nil && !errors.As(err, &nf) {
		return nil, err
	}

	prompt := s.promptBuilder.BuildAnswerScoringPrompt(jobText, resumeText, question, answer)
	feedback, err := s.generators.Scoring.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.AnswerEvaluation{Question: question, Feedback: feedback}, nil
}

// AnalyzeAnswerWithContext implements InterviewService.
func (s *interviewService) AnalyzeAnswerWithContext(ctx context.Context, input models.ScoringInput) (string, error) {
	if input.JobDescription == "" || input.ResumeSummary == "" || input.Question == "" || input.Transcript == "" {
		return "", models.NewValidationError("Missing required fields")
	}

	prompt := s.promptBuilder.BuildAnswerScoringPrompt(input.JobDescription, input.ResumeSummary, input.Question, input.Transcript)
	evaluation, err := s.generators.AltScoring.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(evaluation), nil
}

// SummarizeInterview implements InterviewService.
func (s *interviewService) SummarizeInterview(ctx context.Context, transcript string) (string, error) {
	if transcript == "" {
		return "", models.NewValidationError("Transcript is required for analysis.")
	}

	prompt := s.promptBuilder.BuildInterviewSummaryPrompt(transcript)
	feedback, err := s.generators.Scoring.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(feedback), nil
}

// Summarize returns the first ten lines of text followed by an ellipsis.
func Summarize(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > summaryLines {
		lines = lines[:summaryLines]
	}
	return strings.Join(lines, "\n") + "..."
}
