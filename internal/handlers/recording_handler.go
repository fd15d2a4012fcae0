package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

const saveRecordingFailedMessage = "Failed to save recording."

type RecordingHandler struct {
	store       services.RecordingStore
	maxFileSize int64
}

func NewRecordingHandler(store services.RecordingStore, maxFileSize int64) *RecordingHandler {
	return &RecordingHandler{
		store:       store,
		maxFileSize: maxFileSize,
	}
}

// HandleSaveRecording handles POST /api/save-recording
func (h *RecordingHandler) HandleSaveRecording(c *fiber.Ctx) error {
	ctx := logger.WithAction(c.UserContext(), "save_recording")
	c.SetUserContext(ctx)

	fh, err := c.FormFile("audio")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "No audio file uploaded.")
	}

	if fh.Size > h.maxFileSize {
		return respondError(c, fiber.StatusBadRequest, fileTooLargeMessage(h.maxFileSize))
	}

	f, err := fh.Open()
	if err != nil {
		return respondFailure(c, saveRecordingFailedMessage, fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	recording, err := h.store.Save(ctx, models.RecordingUpload{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get(fiber.HeaderContentType),
		Size:         fh.Size,
		Body:         f,
	})
	if err != nil {
		return respondFailure(c, saveRecordingFailedMessage, err)
	}

	ctxzap.Info(ctx, "recording saved",
		zap.String("recording_id", recording.ID),
		zap.String("backend", h.store.Backend()),
		zap.Int64("size", recording.Size),
	)

	return c.JSON(models.SaveRecordingResponse{
		Message:   "Recording saved successfully.",
		Recording: recording,
	})
}
