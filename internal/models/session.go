package models

import "time"

// Session is the per-client interview state. DocumentsSet and QuestionsSet record
// whether the fields were ever populated, since empty text is a legal
// extraction result.
type Session struct {
	ID             string
	JobDescription string
	Resume         string
	Questions      []string
	DocumentsSet   bool
	QuestionsSet   bool
	UpdatedAt      time.Time
}

// Clone returns a copy that shares no slice storage with s.
func (s *Session) Clone() *Session {
	c := *s
	if s.Questions != nil {
		c.Questions = append([]string(nil), s.Questions...)
	}
	return &c
}
