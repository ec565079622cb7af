package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voxhire/voxhire/internal/callengine"
	"github.com/voxhire/voxhire/internal/models"
	mongorepo "github.com/voxhire/voxhire/internal/repositories/mongo"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/scoring"
	"github.com/voxhire/voxhire/internal/utils"
)

type LaunchResult struct {
	SessionID     string `json:"session_id"`
	ApplicationID string `json:"application_id,omitempty"`
}

type FinalizeResult struct {
	Session *models.Session `json:"session"`
	// AlreadyFinalized means this call found the artifact persisted by an
	// earlier finalize and performed no side effects.
	AlreadyFinalized bool `json:"already_finalized"`
	// PipelineAdvanced reports whether the linked application reached
	// AI_SCREENING_COMPLETE during this call.
	PipelineAdvanced bool `json:"pipeline_advanced"`
}

// Orchestrator owns interview sessions end to end: launch, live event
// ingestion, finalization and the hand-off into the status pipeline.
type Orchestrator interface {
	CreateSession(ctx context.Context, userID string, kind models.SessionKind, jobPostingID string) (*LaunchResult, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	BindCallID(ctx context.Context, sessionID, externalID string) error
	Ingest(ctx context.Context, sessionID string, ev callengine.Event) error
	Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error)
}

// liveSession is the in-memory transcript buffer of one active call. Its
// mutex serializes everything touching one session, so turns are appended in
// arrival order and finalize cannot race ingestion.
type liveSession struct {
	mu     sync.Mutex
	turns  []scoring.Turn
	halted bool
}

type orchestrator struct {
	sessions mongorepo.SessionRepository
	apps     pgrepo.ApplicationRepository
	jobs     pgrepo.JobRepository
	profiles pgrepo.ProfileRepository
	pipeline Pipeline
	pub      SessionPublisher
	log      *logrus.Logger

	resumeMinChars int

	mu   sync.Mutex
	live map[string]*liveSession
}

func NewOrchestrator(
	sessions mongorepo.SessionRepository,
	apps pgrepo.ApplicationRepository,
	jobs pgrepo.JobRepository,
	profiles pgrepo.ProfileRepository,
	pipeline Pipeline,
	pub SessionPublisher,
	log *logrus.Logger,
	resumeMinChars int,
) Orchestrator {
	if resumeMinChars <= 0 {
		resumeMinChars = 100
	}
	return &orchestrator{
		sessions:       sessions,
		apps:           apps,
		jobs:           jobs,
		profiles:       profiles,
		pipeline:       pipeline,
		pub:            pub,
		log:            log,
		resumeMinChars: resumeMinChars,
		live:           map[string]*liveSession{},
	}
}

func (o *orchestrator) CreateSession(ctx context.Context, userID string, kind models.SessionKind, jobPostingID string) (*LaunchResult, error) {
	const op = "Orchestrator.CreateSession"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if kind != models.KindPractice && kind != models.KindApplication {
		return nil, utils.E(utils.CodeInvalidArgument, op, "kind must be PRACTICE or APPLICATION", nil)
	}

	profile, err := o.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeFailedPrecondition, op, "resume required: upload your resume before starting an interview", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if len(strings.TrimSpace(profile.ResumeText)) < o.resumeMinChars {
		return nil, utils.E(utils.CodeFailedPrecondition, op, "resume required: upload your resume before starting an interview", nil)
	}

	now := time.Now().UTC()
	session := &models.Session{
		SessionID:   uuid.NewString(),
		CandidateID: profile.ID,
		Kind:        kind,
		Status:      models.SessionActive,
		CallRef:     models.CallRef{Local: "temp_" + uuid.NewString()},
		CreatedAt:   now,
	}

	if kind == models.KindPractice {
		if err := o.sessions.Create(ctx, session); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
		}
		return &LaunchResult{SessionID: session.SessionID}, nil
	}

	// APPLICATION kind
	if jobPostingID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_posting_id is required", nil)
	}
	job, err := o.jobs.GetByID(ctx, jobPostingID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job posting not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job posting", err)
	}
	if !job.IsActive {
		return nil, utils.E(utils.CodeFailedPrecondition, op, "job posting is no longer active", nil)
	}

	if _, err := o.apps.FindByCandidateAndJob(ctx, profile.ID, job.ID); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "already applied to this position", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}

	app := &models.Application{
		ID:           uuid.NewString(),
		CandidateID:  profile.ID,
		JobPostingID: job.ID,
		Status:       models.StatusApplied,
		SessionID:    &session.SessionID,
		AppliedAt:    now,
		UpdatedAt:    now,
	}
	session.ApplicationID = &app.ID

	// The application row goes first: its unique index decides the winner of
	// a concurrent double-apply, so the loser never creates a session. The
	// stores cannot share a transaction, so a failed session insert is
	// compensated by deleting the application.
	if err := o.apps.Insert(ctx, app); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "already applied to this position", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	if err := o.sessions.Create(ctx, session); err != nil {
		if derr := o.apps.Delete(ctx, app.ID); derr != nil {
			o.log.WithError(derr).WithField("application_id", app.ID).
				Error("compensating application delete failed; orphaned application")
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	return &LaunchResult{SessionID: session.SessionID, ApplicationID: app.ID}, nil
}

func (o *orchestrator) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "Orchestrator.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	s, err := o.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return s, nil
}

// BindCallID records the engine-assigned call id. Safe to repeat with the
// same value; a conflicting rebind after finalization is rejected.
func (o *orchestrator) BindCallID(ctx context.Context, sessionID, externalID string) error {
	const op = "Orchestrator.BindCallID"

	if sessionID == "" || externalID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id and call_id are required", nil)
	}

	s, err := o.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if s.Status != models.SessionActive {
		if s.CallRef.External != nil && *s.CallRef.External == externalID {
			return nil
		}
		return utils.E(utils.CodeConflict, op, "call id can no longer be changed", nil)
	}

	if s.CallRef.External != nil && *s.CallRef.External != externalID {
		o.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"old":        *s.CallRef.External,
			"new":        externalID,
		}).Warn("call id rebound while active")
	}

	if err := o.sessions.BindCallID(ctx, sessionID, externalID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// finalized between the read and the write; same policy as above
			return o.BindCallID(ctx, sessionID, externalID)
		}
		return utils.E(utils.CodeInternal, op, "failed to bind call id", err)
	}
	return nil
}

func (o *orchestrator) Ingest(ctx context.Context, sessionID string, ev callengine.Event) error {
	const op = "Orchestrator.Ingest"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if !ev.Type.Known() {
		return utils.E(utils.CodeInvalidArgument, op, "unknown event type", nil)
	}

	if ev.CallID != "" {
		if err := o.BindCallID(ctx, sessionID, ev.CallID); err != nil && !utils.IsCode(err, utils.CodeConflict) {
			return err
		}
	}

	ls := o.liveState(sessionID)
	ls.mu.Lock()
	defer ls.mu.Unlock()

	switch ev.Type {
	case callengine.EventCallStarted, callengine.EventSpeechStarted, callengine.EventSpeechEnded:
		o.log.WithFields(logrus.Fields{"session_id": sessionID, "event": ev.Type}).Debug("call event")
		return nil

	case callengine.EventTranscript:
		if ls.halted {
			return nil
		}
		// interim turns repeat and mutate; only final turns enter the
		// transcript, in arrival order
		if !ev.IsFinal || ev.Text == "" {
			return nil
		}
		ls.turns = append(ls.turns, scoring.Turn{Speaker: ev.Speaker, Text: ev.Text})
		return nil

	case callengine.EventCallEnded:
		if ls.halted {
			// an error event already aborted this call; only the reaper's
			// forced finalize closes it out
			return nil
		}
		_, err := o.finalizeLocked(ctx, sessionID, ls)
		return err

	case callengine.EventError:
		// The engine failed mid-call. Nothing is persisted and the session
		// stays active for diagnostics; the reaper force-finalizes it later.
		ls.halted = true
		o.log.WithFields(logrus.Fields{"session_id": sessionID, "message": ev.Message}).
			Warn("call engine error, session halted")
		o.pub.PublishStatus(ctx, sessionID, `{"type":"status","status":"error","message":"call engine error"}`)
		return nil
	}
	return nil
}

func (o *orchestrator) Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	const op = "Orchestrator.Finalize"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	ls := o.liveState(sessionID)
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return o.finalizeLocked(ctx, sessionID, ls)
}

// finalizeLocked persists the artifact exactly once. The caller holds
// ls.mu. A session finalized earlier (or by another replica) is returned
// untouched with no side effects.
func (o *orchestrator) finalizeLocked(ctx context.Context, sessionID string, ls *liveSession) (*FinalizeResult, error) {
	const op = "Orchestrator.Finalize"

	turns := ls.turns
	transcript := scoring.JoinTranscript(turns)
	result := scoring.Evaluate(turns)
	now := time.Now().UTC()

	applied, err := o.sessions.Finalize(ctx, sessionID, transcript, result.Feedback, result.Score, now)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist interview artifact", err)
	}

	s, err := o.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !applied {
		// a late redelivery recreated this registry entry; drop it again or
		// it leaks one entry per completed session
		ls.halted = true
		o.dropLive(sessionID)
		if s.Status != models.SessionCompleted {
			return nil, utils.E(utils.CodeConflict, op, "session is not active", nil)
		}
		return &FinalizeResult{Session: s, AlreadyFinalized: true}, nil
	}

	ls.halted = true
	o.dropLive(sessionID)

	res := &FinalizeResult{Session: s}

	// Transcript capture is the durable artifact of record; advancing the
	// application is best effort and never rolls it back.
	if s.ApplicationID != nil {
		if _, err := o.pipeline.Advance(ctx, *s.ApplicationID, models.StatusAIScreeningComplete, models.SystemActor()); err != nil {
			o.log.WithError(err).WithFields(logrus.Fields{
				"session_id":     sessionID,
				"application_id": *s.ApplicationID,
			}).Error("status advance after finalize failed")
		} else {
			res.PipelineAdvanced = true
		}
	}

	o.pub.PublishStatus(ctx, sessionID, `{"type":"status","status":"completed","message":"interview finalized"}`)
	return res, nil
}

func (o *orchestrator) liveState(sessionID string) *liveSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	ls, ok := o.live[sessionID]
	if !ok {
		ls = &liveSession{}
		o.live[sessionID] = ls
	}
	return ls
}

func (o *orchestrator) dropLive(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.live, sessionID)
}
