package models

// PreparedInterview is the outcome of a successful upload.
type PreparedInterview struct {
	SessionID             string
	Questions             []string
	JobDescriptionSummary string
}

// AnswerEvaluation is produced per answer and never stored server-side.
type AnswerEvaluation struct {
	Question string `json:"question"`
	Feedback string `json:"feedback"`
}

// ScoringInput carries caller-supplied context for the alternate scoring path.
type ScoringInput struct {
	JobDescription string
	ResumeSummary  string
	Question       string
	Transcript     string
}

type UploadResponse struct {
	Message               string   `json:"message"`
	InterviewQuestions    []string `json:"interviewQuestions"`
	JobDescriptionSummary string   `json:"jobDescriptionSummary"`
	SessionID             string   `json:"sessionId"`
}

type JobDescriptionResponse struct {
	Message        string `json:"message"`
	JobDescription string `json:"jobDescription"`
}

type QuestionsResponse struct {
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
	Count     int      `json:"count"`
}

type AnalyzeAnswerRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type AnalyzeAnswerResponse struct {
	Feedback string `json:"feedback"`
}

type AnalyzeWithContextRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	ResumeSummary  string `json:"resume_summary" validate:"required"`
	Question       string `json:"question" validate:"required"`
	Transcript     string `json:"transcript" validate:"required"`
}

type AnalyzeWithContextResponse struct {
	Evaluation string `json:"evaluation"`
}

type AnalyzeTranscriptRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
