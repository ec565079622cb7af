package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memProfiles struct {
	mu   sync.Mutex
	rows map[string]*models.Profile // keyed by ID
}

func newMemProfiles(ps ...*models.Profile) *memProfiles {
	m := &memProfiles{rows: map[string]*models.Profile{}}
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Insert(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.rows {
		if ex.UserID == p.UserID {
			return utils.ErrDuplicate
		}
	}
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memProfiles) Update(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

type memJobs struct {
	jobs      map[string]*models.JobPosting
	companies map[string]*models.Company
}

func (m *memJobs) GetByID(_ context.Context, id string) (*models.JobPosting, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) GetCompany(_ context.Context, id string) (*models.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type memRecruiters struct {
	rows map[string]*models.Recruiter // keyed by user id
}

func (m *memRecruiters) GetByUserID(_ context.Context, userID string) (*models.Recruiter, error) {
	r, ok := m.rows[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type memApps struct {
	mu      sync.Mutex
	rows    map[string]*models.Application
	casFail bool // forces UpdateStatus to report a lost compare-and-set
}

func newMemApps(as ...*models.Application) *memApps {
	m := &memApps{rows: map[string]*models.Application{}}
	for _, a := range as {
		m.rows[a.ID] = a
	}
	return m
}

func (m *memApps) Insert(_ context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.rows {
		if ex.CandidateID == a.CandidateID && ex.JobPostingID == a.JobPostingID {
			return utils.ErrDuplicate
		}
	}
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memApps) GetByID(_ context.Context, id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApps) FindByCandidateAndJob(_ context.Context, candidateID, jobPostingID string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.CandidateID == candidateID && a.JobPostingID == jobPostingID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memApps) UpdateStatus(_ context.Context, id string, from, to models.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || a.Status != from || m.casFail {
		return utils.ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memApps) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memSessions struct {
	mu         sync.Mutex
	rows       map[string]*models.Session
	failCreate bool
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[string]*models.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return context.DeadlineExceeded
	}
	cp := *s
	m.rows[s.SessionID] = &cp
	return nil
}

func (m *memSessions) GetBySessionID(_ context.Context, sessionID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) BindCallID(_ context.Context, sessionID, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[sessionID]
	if !ok || s.Status != models.SessionActive {
		return utils.ErrNotFound
	}
	s.CallRef.External = &externalID
	return nil
}

func (m *memSessions) Finalize(_ context.Context, sessionID, transcript, feedback string, score int, finalizedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[sessionID]
	if !ok || s.Status != models.SessionActive {
		return false, nil
	}
	s.Status = models.SessionCompleted
	s.Transcript = transcript
	s.Feedback = feedback
	s.Score = score
	s.FinalizedAt = &finalizedAt
	return true, nil
}

func (m *memSessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, sessionID)
	return nil
}

func (m *memSessions) ListStaleActive(_ context.Context, cutoff time.Time, limit int64) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.rows {
		if s.Status == models.SessionActive && s.CreatedAt.Before(cutoff) {
			out = append(out, *s)
			if int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

type memResumeFiles struct {
	mu   sync.Mutex
	rows []*models.ResumeFile
}

func (m *memResumeFiles) Insert(_ context.Context, f *models.ResumeFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memResumeFiles) LatestByUser(_ context.Context, userID string) (*models.ResumeFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.ResumeFile
	for _, f := range m.rows {
		if f.UserID != userID {
			continue
		}
		if latest == nil || f.UploadAt.After(latest.UploadAt) {
			latest = f
		}
	}
	if latest == nil {
		return nil, utils.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

type memPublisher struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newMemPublisher() *memPublisher {
	return &memPublisher{msgs: map[string][]string{}}
}

func (m *memPublisher) PublishStatus(_ context.Context, sessionID, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs[sessionID] = append(m.msgs[sessionID], payload)
}

func (m *memPublisher) count(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs[sessionID])
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type memDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *memDispatcher) Send(_ context.Context, to, subject, bodyHTML string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: bodyHTML})
	return nil
}
