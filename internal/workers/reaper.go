package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	mongorepo "github.com/voxhire/voxhire/internal/repositories/mongo"
	"github.com/voxhire/voxhire/internal/services"
)

// Reaper force-finalizes sessions whose call never delivered call-ended
// (dropped connections, crashed clients). Without it, abandoned sessions
// accumulate as active forever.
type Reaper struct {
	Sessions     mongorepo.SessionRepository
	Orchestrator services.Orchestrator
	Logger       *logrus.Logger

	Timeout  time.Duration // how long a session may stay active
	Interval time.Duration // scan period
	Batch    int64
}

func (r *Reaper) Start(ctx context.Context) error {
	if r.Sessions == nil || r.Orchestrator == nil {
		return errors.New("Reaper missing dependency: Sessions/Orchestrator must be set")
	}
	if r.Timeout <= 0 {
		r.Timeout = 30 * time.Minute
	}
	if r.Interval <= 0 {
		r.Interval = time.Minute
	}
	if r.Batch <= 0 {
		r.Batch = 100
	}
	if r.Logger == nil {
		r.Logger = logrus.New()
	}

	go r.run(ctx)
	return nil
}

func (r *Reaper) run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.Timeout)

	stale, err := r.Sessions.ListStaleActive(ctx, cutoff, r.Batch)
	if err != nil {
		r.Logger.WithError(err).Warn("stale session scan failed")
		return
	}

	for _, s := range stale {
		log := r.Logger.WithFields(logrus.Fields{
			"session_id": s.SessionID,
			"created_at": s.CreatedAt,
		})

		res, err := r.Orchestrator.Finalize(ctx, s.SessionID)
		if err != nil {
			log.WithError(err).Warn("forced finalize failed")
			continue
		}
		if !res.AlreadyFinalized {
			log.WithField("score", res.Session.Score).Info("stale session force-finalized")
		}
	}
}
