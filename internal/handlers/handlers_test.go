package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

const testMaxFileSize = 1024

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

type testEnv struct {
	app          *fiber.App
	questions    *stubGenerator
	scoring      *stubGenerator
	altScoring   *stubGenerator
	recordingDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		questions:    &stubGenerator{text: "1. Tell me about X.\n2. 5\n3. Describe your experience with Y in detail.\n"},
		scoring:      &stubGenerator{text: "Score: 27/30"},
		altScoring:   &stubGenerator{text: "  Strong answer.  \n"},
		recordingDir: t.TempDir(),
	}

	sessions := repositories.NewSessionRepository(time.Hour, time.Hour)
	interviews := services.NewInterviewService(
		sessions,
		services.NewDocumentExtractor(services.NewPDFParserService()),
		services.NewPromptBuilder(nil),
		services.Generators{Questions: env.questions, Scoring: env.scoring, AltScoring: env.altScoring},
		rand.New(rand.NewPCG(1, 1)),
	)
	store, err := services.NewLocalRecordingStore(env.recordingDir)
	require.NoError(t, err)

	env.app = NewApp(AppConfig{Name: "test", BodyLimit: 4 * testMaxFileSize}, zap.NewNop())
	RegisterRoutes(env.app, Handlers{
		Upload:    NewUploadHandler(interviews, testMaxFileSize),
		Session:   NewSessionHandler(interviews),
		Analyze:   NewAnalyzeHandler(interviews),
		Recording: NewRecordingHandler(store, testMaxFileSize),
	})

	return env
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path string, parts ...filePart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(req *http.Request, id string) *http.Request {
	req.Header.Set(SessionHeader, id)
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func textPart(field, content string) filePart {
	return filePart{field: field, filename: field + ".txt", contentType: "text/plain", data: []byte(content)}
}

func TestUpload_Success(t *testing.T) {
	env := newTestEnv(t)
	jd := "Senior Go Engineer\nLine2\nLine3\nLine4\nLine5\nLine6\nLine7\nLine8\nLine9\nLine10\nLine11"

	resp, body := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, jd),
		textPart(resumeField, "Five years of Go"),
	), "s1"))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Interview questions generated successfully!", body["message"])
	assert.Equal(t, []any{"Tell me about X.", "Describe your experience with Y in detail."}, body["interviewQuestions"])
	assert.Equal(t, "Senior Go Engineer\nLine2\nLine3\nLine4\nLine5\nLine6\nLine7\nLine8\nLine9\nLine10...", body["jobDescriptionSummary"])
	assert.Equal(t, "s1", body["sessionId"])

	require.Len(t, env.questions.prompts, 1)
	assert.Contains(t, env.questions.prompts[0], "Five years of Go")

	resp, body = do(t, env.app, withSession(jsonRequest(t, http.MethodGet, "/api/questions", nil), "s1"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Questions retrieved successfully.", body["message"])
	assert.Equal(t, float64(2), body["count"])

	resp, body = do(t, env.app, withSession(jsonRequest(t, http.MethodGet, "/api/job-description", nil), "s1"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Job description retrieved successfully.", body["message"])
	assert.Equal(t, jd, body["jobDescription"])
}

func TestUpload_MissingResume(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/upload", textPart(jobDescriptionField, "jd")))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Both job description and resume files are required.", body["error"])
	assert.Empty(t, env.questions.prompts)
}

func TestUpload_NotMultipart(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/upload", map[string]string{"resume": "x"}))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Both job description and resume files are required.", body["error"])
}

func TestUpload_DisallowedType(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "jd"),
		filePart{field: resumeField, filename: "cv.png", contentType: "image/png", data: []byte{0x89, 'P', 'N', 'G'}},
	))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid file type. Only TXT and PDF files are allowed.", body["error"])
}

func TestUpload_FileTooLarge(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, strings.Repeat("a", testMaxFileSize+1)),
		textPart(resumeField, "cv"),
	))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, fileTooLargeMessage(testMaxFileSize), body["error"])
}

func TestUpload_MalformedPDFLeavesSessionUnmodified(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "first jd"),
		textPart(resumeField, "first cv"),
	), "s1"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "second jd"),
		filePart{field: resumeField, filename: "cv.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4 broken")},
	), "s1"))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred during processing.", body["error"])
	assert.Contains(t, body["details"], "cv.pdf")

	_, body = do(t, env.app, withSession(jsonRequest(t, http.MethodGet, "/api/job-description", nil), "s1"))
	assert.Equal(t, "first jd", body["jobDescription"])
	assert.Len(t, env.questions.prompts, 1)
}

func TestUpload_GenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.questions.err = &models.GenerationError{Provider: "stub", Err: errors.New("quota exceeded")}

	resp, body := do(t, env.app, multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "jd"),
		textPart(resumeField, "cv"),
	))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred during processing.", body["error"])
	assert.Contains(t, body["details"], "quota exceeded")
}

func TestUpload_NoSurvivingQuestions(t *testing.T) {
	env := newTestEnv(t)
	env.questions.text = "I'm sorry, I can't help with that."

	resp, body := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "jd"),
		textPart(resumeField, "cv"),
	), "s1"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["interviewQuestions"])

	resp, body = do(t, env.app, withSession(jsonRequest(t, http.MethodGet, "/api/questions", nil), "s1"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No questions generated yet.", body["error"])
}

func TestSessionReads_BeforeUpload(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodGet, "/api/questions", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No questions generated yet.", body["error"])

	resp, body = do(t, env.app, jsonRequest(t, http.MethodGet, "/api/job-description", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No job description loaded yet.", body["error"])
}

func TestSession_AnonymousCallersShareDefaultSession(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "Platform engineer with Kubernetes"),
		textPart(resumeField, "Ran EKS clusters for four years"),
	))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, DefaultSessionID, body["sessionId"])
	assert.Equal(t, DefaultSessionID, resp.Header.Get(SessionHeader))
	assert.Empty(t, resp.Cookies())

	resp, body = do(t, env.app, jsonRequest(t, http.MethodGet, "/api/questions", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	resp, body = do(t, env.app, jsonRequest(t, http.MethodGet, "/api/job-description", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Platform engineer with Kubernetes", body["jobDescription"])

	resp, _ = do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "How do you roll out cluster upgrades?",
		"answer":   "Surge node pools one at a time.",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, env.scoring.prompts, 1)
	assert.Contains(t, env.scoring.prompts[0], "Job Description:\nPlatform engineer with Kubernetes")
	assert.Contains(t, env.scoring.prompts[0], "Resume Summary:\nRan EKS clusters for four years")
}

func TestAnalyzeAnswer_UsesDocumentsFromSameSession(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "Backend role using Go and Postgres"),
		textPart(resumeField, "Built payment services in Go"),
	), "alice"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, env.app, withSession(jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "Why Go?",
		"answer":   "Fast builds.",
	}), "alice"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, env.app, withSession(jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "Why Go?",
		"answer":   "Fast builds.",
	}), "bob"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, env.scoring.prompts, 2)
	assert.Contains(t, env.scoring.prompts[0], "Backend role using Go and Postgres")
	assert.Contains(t, env.scoring.prompts[0], "Built payment services in Go")
	assert.NotContains(t, env.scoring.prompts[1], "Backend role using Go and Postgres")
}

func TestSession_HeaderAndCookieIsolated(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := do(t, env.app, withSession(multipartRequest(t, "/api/upload",
		textPart(jobDescriptionField, "jd"),
		textPart(resumeField, "cv"),
	), "alice"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := jsonRequest(t, http.MethodGet, "/api/questions", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "alice"})
	resp, _ = do(t, env.app, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", resp.Header.Get(SessionHeader))

	resp, _ = do(t, env.app, withSession(jsonRequest(t, http.MethodGet, "/api/questions", nil), "bob"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, env.app, jsonRequest(t, http.MethodGet, "/api/questions", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCORSConfig(t *testing.T) {
	wildcard := corsConfig("")
	assert.Equal(t, "*", wildcard.AllowOrigins)
	assert.False(t, wildcard.AllowCredentials)

	explicit := corsConfig("https://coach.example.com")
	assert.Equal(t, "https://coach.example.com", explicit.AllowOrigins)
	assert.True(t, explicit.AllowCredentials)
	assert.Contains(t, explicit.AllowHeaders, SessionHeader)
}

func TestAnalyzeAnswer(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "Why Go?",
		"answer":   "Simplicity and goroutines.",
	}))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Score: 27/30", body["feedback"])
	require.Len(t, env.scoring.prompts, 1)
	assert.Contains(t, env.scoring.prompts[0], "Simplicity and goroutines.")
}

func TestAnalyzeAnswer_EmptyAnswer(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "Why Go?",
		"answer":   "",
	}))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Question and answer are required for analysis.", body["error"])
	assert.Empty(t, env.scoring.prompts)
}

func TestAnalyzeAnswer_GenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.scoring.err = &models.GenerationError{Provider: "stub", Err: errors.New("timeout")}

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer", map[string]string{
		"question": "Why Go?",
		"answer":   "Because.",
	}))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to analyze answer.", body["error"])
	assert.Equal(t, "stub generation failed: timeout", body["details"])
}

func TestAnalyzeWithContext(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer-openai", map[string]string{
		"job_description": "jd",
		"resume_summary":  "cv",
		"question":        "Why Go?",
		"transcript":      "Because.",
	}))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Strong answer.", body["evaluation"])
	assert.Empty(t, env.scoring.prompts)
}

func TestAnalyzeWithContext_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer-openai", map[string]string{
		"job_description": "jd",
		"question":        "Why Go?",
	}))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["error"])
}

func TestAnalyzeWithContext_GenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.altScoring.err = &models.GenerationError{Provider: "stub", Err: errors.New("down")}

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-answer-openai", map[string]string{
		"job_description": "jd",
		"resume_summary":  "cv",
		"question":        "Why Go?",
		"transcript":      "Because.",
	}))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to analyze answer", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestAnalyzeTranscript(t *testing.T) {
	env := newTestEnv(t)
	env.scoring.text = "Ready for on-site."

	resp, body := do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-transcript", map[string]string{
		"transcript": "Question: Why Go?\nAnswer: Because.",
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ready for on-site.", body["feedback"])

	resp, body = do(t, env.app, jsonRequest(t, http.MethodPost, "/api/analyze-transcript", map[string]string{}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Transcript is required for analysis.", body["error"])
}

func TestSaveRecording(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/save-recording",
		filePart{field: "audio", filename: "answer.webm", contentType: "audio/webm", data: []byte("webm-bytes")},
	))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Recording saved successfully.", body["message"])

	rec, ok := body["recording"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "answer.webm", rec["originalName"])
	assert.Equal(t, "audio/webm", rec["contentType"])

	data, err := os.ReadFile(rec["location"].(string))
	require.NoError(t, err)
	assert.Equal(t, "webm-bytes", string(data))
}

func TestSaveRecording_NoFile(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/save-recording", textPart("other", "x")))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No audio file uploaded.", body["error"])
}

func TestSaveRecording_TooLarge(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, multipartRequest(t, "/api/save-recording",
		filePart{field: "audio", filename: "long.webm", contentType: "audio/webm", data: bytes.Repeat([]byte{1}, testMaxFileSize+1)},
	))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, fileTooLargeMessage(testMaxFileSize), body["error"])

	entries, err := os.ReadDir(env.recordingDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealthAndBanner(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Empty(t, resp.Header.Get(SessionHeader))

	resp, body = do(t, env.app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, Version, body["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(fiber.StatusNotFound), body["code"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(models.NewValidationError("bad")))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(fmt.Errorf("wrapped: %w", &models.NotFoundError{Resource: "questions"})))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(&models.ExtractionError{Err: errors.New("x")}))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(&models.GenerationError{Provider: "p", Err: errors.New("x")}))
	assert.Equal(t, fiber.StatusTeapot, StatusFor(fiber.NewError(fiber.StatusTeapot)))
}
