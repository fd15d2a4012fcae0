package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/observability"
)

type RecordingStore interface {
	Save(ctx context.Context, upload models.RecordingUpload) (*models.Recording, error)
	Backend() string
}

type localRecordingStore struct {
	uploadPath string
	now        func() time.Time
}

// NewLocalRecordingStore stores recordings under uploadPath, creating it if
// needed.
func NewLocalRecordingStore(uploadPath string) (RecordingStore, error) {
	s := &localRecordingStore{
		uploadPath: uploadPath,
		now:        time.Now,
	}
	if err := s.ensureUploadDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localRecordingStore) Backend() string {
	return config.StorageLocal
}

func (s *localRecordingStore) ensureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Save implements RecordingStore. Files are named <uuid>_<original name> so
// two uploads with the same name never collide.
func (s *localRecordingStore) Save(_ context.Context, upload models.RecordingUpload) (*models.Recording, error) {
	body, contentType, err := detectContentType(upload.Body, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}

	id := uuid.New().String()
	storedName := StoredRecordingName(id, upload.OriginalName)
	filePath := filepath.Join(s.uploadPath, storedName)

	written, err := writeFile(filePath, body)
	if err != nil {
		return nil, err
	}

	observability.RecordingsSavedTotal.WithLabelValues(s.Backend()).Inc()

	return &models.Recording{
		ID:           id,
		OriginalName: upload.OriginalName,
		StoredName:   storedName,
		ContentType:  contentType,
		Size:         written,
		Location:     filePath,
		CreatedAt:    s.now(),
	}, nil
}

// writeFile copies body to path. A failed write or close removes the partial
// file.
func writeFile(path string, body io.Reader) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	written, err := io.Copy(dst, body)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to save file: %w", err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to save file: %w", err)
	}

	return written, nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StoredRecordingName builds the storage key for a recording.
func StoredRecordingName(id, originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "recording"
	}
	return fmt.Sprintf("%s_%s", id, base)
}

// detectContentType returns a reader that still yields the full body,
// sniffing the type from its head when none was declared.
func detectContentType(body io.Reader, declared string) (io.Reader, string, error) {
	if declared != "" && declared != "application/octet-stream" {
		return body, declared, nil
	}

	buffered := bufio.NewReaderSize(body, 3072)
	head, err := buffered.Peek(3072)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", err
	}
	return buffered, mimetype.Detect(head).String(), nil
}
