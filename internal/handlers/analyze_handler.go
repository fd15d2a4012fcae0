package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

var validate = validator.New()

type AnalyzeHandler struct {
	interviews services.InterviewService
}

func NewAnalyzeHandler(interviews services.InterviewService) *AnalyzeHandler {
	return &AnalyzeHandler{
		interviews: interviews,
	}
}

// bindAndValidate parses a JSON body into req and checks its validate tags.
func bindAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		ctxzap.Debug(c.UserContext(), "failed to parse request body", zap.Error(err))
		return err
	}
	if err := validate.Struct(req); err != nil {
		ctxzap.Debug(c.UserContext(), "request validation failed", zap.Error(err))
		return err
	}
	return nil
}

// HandleAnalyzeAnswer handles POST /api/analyze-answer
func (h *AnalyzeHandler) HandleAnalyzeAnswer(c *fiber.Ctx) error {
	const invalidMessage = "Question and answer are required for analysis."
	c.SetUserContext(logger.WithAction(c.UserContext(), "analyze_answer"))

	var req models.AnalyzeAnswerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, invalidMessage)
	}

	evaluation, err := h.interviews.AnalyzeAnswer(c.UserContext(), SessionID(c), req.Question, req.Answer)
	if err != nil {
		return respondFailure(c, "Failed to analyze answer.", err)
	}

	return c.JSON(models.AnalyzeAnswerResponse{Feedback: evaluation.Feedback})
}

// HandleAnalyzeWithContext handles POST /api/analyze-answer-openai. The
// caller supplies the documents so no session state is read.
func (h *AnalyzeHandler) HandleAnalyzeWithContext(c *fiber.Ctx) error {
	c.SetUserContext(logger.WithAction(c.UserContext(), "analyze_answer_with_context"))

	var req models.AnalyzeWithContextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Missing required fields")
	}

	evaluation, err := h.interviews.AnalyzeAnswerWithContext(c.UserContext(), models.ScoringInput{
		JobDescription: req.JobDescription,
		ResumeSummary:  req.ResumeSummary,
		Question:       req.Question,
		Transcript:     req.Transcript,
	})
	if err != nil {
		return respondFailure(c, "Failed to analyze answer", err)
	}

	return c.JSON(models.AnalyzeWithContextResponse{Evaluation: evaluation})
}

// HandleAnalyzeTranscript handles POST /api/analyze-transcript
func (h *AnalyzeHandler) HandleAnalyzeTranscript(c *fiber.Ctx) error {
	c.SetUserContext(logger.WithAction(c.UserContext(), "analyze_transcript"))

	var req models.AnalyzeTranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Transcript is required for analysis.")
	}

	feedback, err := h.interviews.SummarizeInterview(c.UserContext(), req.Transcript)
	if err != nil {
		return respondFailure(c, "Failed to analyze transcript.", err)
	}

	return c.JSON(models.AnalyzeAnswerResponse{Feedback: feedback})
}
