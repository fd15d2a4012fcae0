package repositories

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"alfredoptarigan/interview-coach/internal/models"
)

type SessionRepository interface {
	Get(id string) (*models.Session, bool)
	SetDocuments(id, jobDescription, resume string)
	SetQuestions(id string, questions []string)
	GetQuestions(id string) ([]string, error)
	GetJobDescription(id string) (string, error)
	GetDocuments(id string) (jobDescription, resume string, err error)
	Delete(id string)
}

type sessionRepository struct {
	store *cache.Cache
	ttl   time.Duration

	// mu serializes read-modify-write of a session entry.
	mu  sync.Mutex
	now func() time.Time
}

// NewSessionRepository keeps sessions in memory. Each write refreshes the
// entry's TTL; expired sessions are swept every cleanupInterval.
func NewSessionRepository(ttl, cleanupInterval time.Duration) SessionRepository {
	return &sessionRepository{
		store: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get implements SessionRepository. The returned session is a copy.
func (r *sessionRepository) Get(id string) (*models.Session, bool) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*models.Session).Clone(), true
}

// SetDocuments implements SessionRepository.
func (r *sessionRepository) SetDocuments(id, jobDescription, resume string) {
	r.update(id, func(s *models.Session) {
		s.JobDescription = jobDescription
		s.Resume = resume
		s.DocumentsSet = true
	})
}

// SetQuestions implements SessionRepository. The list replaces any previous one.
func (r *sessionRepository) SetQuestions(id string, questions []string) {
	r.update(id, func(s *models.Session) {
		s.Questions = append([]string(nil), questions...)
		s.QuestionsSet = true
	})
}

// GetQuestions implements SessionRepository. An empty list is reported as
// not found, the same as a list that was never generated.
func (r *sessionRepository) GetQuestions(id string) ([]string, error) {
	s, ok := r.Get(id)
	if !ok || !s.QuestionsSet || len(s.Questions) == 0 {
		return nil, &models.NotFoundError{Resource: "questions"}
	}
	return s.Questions, nil
}

// GetJobDescription implements SessionRepository.
func (r *sessionRepository) GetJobDescription(id string) (string, error) {
	s, ok := r.Get(id)
	if !ok || !s.DocumentsSet {
		return "", &models.NotFoundError{Resource: "job description"}
	}
	return s.JobDescription, nil
}

// GetDocuments implements SessionRepository.
func (r *sessionRepository) GetDocuments(id string) (string, string, error) {
	s, ok := r.Get(id)
	if !ok || !s.DocumentsSet {
		return "", "", &models.NotFoundError{Resource: "documents"}
	}
	return s.JobDescription, s.Resume, nil
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(id string) {
	r.store.Delete(id)
}

func (r *sessionRepository) update(id string, mutate func(*models.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &models.Session{ID: id}
	if v, ok := r.store.Get(id); ok {
		session = v.(*models.Session).Clone()
	}

	mutate(session)
	session.UpdatedAt = r.now()
	r.store.Set(id, session, r.ttl)
}
