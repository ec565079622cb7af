package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voxhire/voxhire/internal/callengine"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/services"
)

type staleSessions struct {
	stale   []models.Session
	scanErr error
}

func (s *staleSessions) Create(context.Context, *models.Session) error { return nil }
func (s *staleSessions) GetBySessionID(context.Context, string) (*models.Session, error) {
	return nil, errors.New("not implemented")
}
func (s *staleSessions) BindCallID(context.Context, string, string) error { return nil }
func (s *staleSessions) Finalize(context.Context, string, string, string, int, time.Time) (bool, error) {
	return false, nil
}
func (s *staleSessions) Delete(context.Context, string) error      { return nil }
func (s *staleSessions) ListStaleActive(_ context.Context, cutoff time.Time, limit int64) ([]models.Session, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []models.Session
	for _, sess := range s.stale {
		if sess.CreatedAt.Before(cutoff) && int64(len(out)) < limit {
			out = append(out, sess)
		}
	}
	return out, nil
}

type recordingOrch struct {
	finalized []string
	failFor   map[string]error
}

func (o *recordingOrch) CreateSession(context.Context, string, models.SessionKind, string) (*services.LaunchResult, error) {
	return nil, errors.New("not implemented")
}
func (o *recordingOrch) Get(context.Context, string) (*models.Session, error) {
	return nil, errors.New("not implemented")
}
func (o *recordingOrch) BindCallID(context.Context, string, string) error { return nil }
func (o *recordingOrch) Ingest(context.Context, string, callengine.Event) error {
	return nil
}
func (o *recordingOrch) Finalize(_ context.Context, sessionID string) (*services.FinalizeResult, error) {
	if err := o.failFor[sessionID]; err != nil {
		return nil, err
	}
	o.finalized = append(o.finalized, sessionID)
	return &services.FinalizeResult{Session: &models.Session{SessionID: sessionID}}, nil
}

func TestSweepFinalizesOnlyStale(t *testing.T) {
	now := time.Now().UTC()
	sessions := &staleSessions{stale: []models.Session{
		{SessionID: "old-1", CreatedAt: now.Add(-45 * time.Minute)},
		{SessionID: "old-2", CreatedAt: now.Add(-31 * time.Minute)},
		{SessionID: "fresh", CreatedAt: now.Add(-5 * time.Minute)},
	}}
	orch := &recordingOrch{}
	r := &Reaper{Sessions: sessions, Orchestrator: orch, Timeout: 30 * time.Minute, Interval: time.Hour, Batch: 100}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	r.sweep(context.Background())

	if len(orch.finalized) != 2 {
		t.Fatalf("want 2 finalized, got %v", orch.finalized)
	}
	for _, id := range orch.finalized {
		if id == "fresh" {
			t.Fatal("session inside the timeout window was reaped")
		}
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	now := time.Now().UTC()
	sessions := &staleSessions{stale: []models.Session{
		{SessionID: "bad", CreatedAt: now.Add(-2 * time.Hour)},
		{SessionID: "good", CreatedAt: now.Add(-2 * time.Hour)},
	}}
	orch := &recordingOrch{failFor: map[string]error{"bad": errors.New("store down")}}
	r := &Reaper{Sessions: sessions, Orchestrator: orch, Timeout: 30 * time.Minute, Interval: time.Hour, Batch: 100}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	r.sweep(context.Background())

	if len(orch.finalized) != 1 || orch.finalized[0] != "good" {
		t.Fatalf("one failed finalize must not stop the sweep, got %v", orch.finalized)
	}
}

func TestStartRequiresDependencies(t *testing.T) {
	r := &Reaper{}
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("want error when Sessions/Orchestrator are unset")
	}
}
