package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

// SessionHandler serves what a previous upload left in the caller's session.
type SessionHandler struct {
	interviews services.InterviewService
}

func NewSessionHandler(interviews services.InterviewService) *SessionHandler {
	return &SessionHandler{
		interviews: interviews,
	}
}

// HandleGetJobDescription handles GET /api/job-description
func (h *SessionHandler) HandleGetJobDescription(c *fiber.Ctx) error {
	jobDescription, err := h.interviews.JobDescription(c.UserContext(), SessionID(c))
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return respondError(c, fiber.StatusNotFound, "No job description loaded yet.")
		}
		return respondFailure(c, "Failed to load job description.", err)
	}

	return c.JSON(models.JobDescriptionResponse{
		Message:        "Job description retrieved successfully.",
		JobDescription: jobDescription,
	})
}

// HandleGetQuestions handles GET /api/questions
func (h *SessionHandler) HandleGetQuestions(c *fiber.Ctx) error {
	questions, err := h.interviews.Questions(c.UserContext(), SessionID(c))
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return respondError(c, fiber.StatusNotFound, "No questions generated yet.")
		}
		return respondFailure(c, "Failed to load questions.", err)
	}

	return c.JSON(models.QuestionsResponse{
		Message:   "Questions retrieved successfully.",
		Questions: questions,
		Count:     len(questions),
	})
}
