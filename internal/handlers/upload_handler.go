package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

const (
	jobDescriptionField = "jobDescription"
	resumeField         = "resume"

	missingDocumentsMessage = "Both job description and resume files are required."
	processingFailedMessage = "An error occurred during processing."
)

type UploadHandler struct {
	interviews  services.InterviewService
	maxFileSize int64
}

func NewUploadHandler(interviews services.InterviewService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		interviews:  interviews,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /api/upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	ctx := logger.WithAction(c.UserContext(), "upload")
	c.SetUserContext(ctx)

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, missingDocumentsMessage)
	}

	jobFiles := form.File[jobDescriptionField]
	resumeFiles := form.File[resumeField]
	if len(jobFiles) == 0 || len(resumeFiles) == 0 {
		return respondError(c, fiber.StatusBadRequest, missingDocumentsMessage)
	}

	jobDoc, err := h.readDocument(jobFiles[0])
	if err != nil {
		return respondFailure(c, processingFailedMessage, err)
	}

	resumeDoc, err := h.readDocument(resumeFiles[0])
	if err != nil {
		return respondFailure(c, processingFailedMessage, err)
	}

	ctxzap.Info(ctx, "processing interview documents",
		zap.String("job_description_file", jobDoc.Filename),
		zap.String("job_description_kind", string(jobDoc.Kind)),
		zap.String("resume_file", resumeDoc.Filename),
		zap.String("resume_kind", string(resumeDoc.Kind)),
	)

	prepared, err := h.interviews.PrepareInterview(ctx, SessionID(c), jobDoc, resumeDoc)
	if err != nil {
		return respondFailure(c, processingFailedMessage, err)
	}

	questions := prepared.Questions
	if questions == nil {
		questions = []string{}
	}

	return c.JSON(models.UploadResponse{
		Message:               "Interview questions generated successfully!",
		InterviewQuestions:    questions,
		JobDescriptionSummary: prepared.JobDescriptionSummary,
		SessionID:             prepared.SessionID,
	})
}

func (h *UploadHandler) readDocument(fh *multipart.FileHeader) (models.UploadedDocument, error) {
	if fh.Size > h.maxFileSize {
		return models.UploadedDocument{}, models.NewValidationError("%s", fileTooLargeMessage(h.maxFileSize))
	}

	f, err := fh.Open()
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	kind, err := services.ResolveKind(fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return models.UploadedDocument{}, err
	}

	return models.UploadedDocument{
		Filename: fh.Filename,
		Kind:     kind,
		Data:     data,
	}, nil
}
