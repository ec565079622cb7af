package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error)
	BindCallID(ctx context.Context, sessionID, externalID string) error
	// Finalize writes the artifact iff the session is still active. The
	// boolean reports whether this call applied the write; false means some
	// earlier call already finalized the session.
	Finalize(ctx context.Context, sessionID, transcript, feedback string, score int, finalizedAt time.Time) (bool, error)
	Delete(ctx context.Context, sessionID string) error
	ListStaleActive(ctx context.Context, cutoff time.Time, limit int64) ([]models.Session, error)
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

// BindCallID sets the engine-assigned call id while the session is still
// active. Rebind policy (same value ok, conflicting rebind after
// finalization rejected) lives in the orchestrator.
func (r *sessionRepo) BindCallID(ctx context.Context, sessionID, externalID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "status": models.SessionActive},
		bson.M{"$set": bson.M{"call_ref.external": externalID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Finalize(ctx context.Context, sessionID, transcript, feedback string, score int, finalizedAt time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "status": models.SessionActive},
		bson.M{"$set": bson.M{
			"status":       models.SessionCompleted,
			"transcript":   transcript,
			"feedback":     feedback,
			"score":        score,
			"finalized_at": finalizedAt.UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Delete is the compensating action of a failed launch; finished sessions are
// never deleted.
func (r *sessionRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"session_id": sessionID})
	return err
}

func (r *sessionRepo) ListStaleActive(ctx context.Context, cutoff time.Time, limit int64) ([]models.Session, error) {
	opts := mongoFindLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{
		"status":     models.SessionActive,
		"created_at": bson.M{"$lt": cutoff.UTC()},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
