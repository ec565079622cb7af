package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionKind string

const (
	KindPractice    SessionKind = "PRACTICE"
	KindApplication SessionKind = "APPLICATION"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// CallRef is the two-phase call identifier: the local placeholder is always
// present, the engine-assigned id is nil until the call engine binds it.
type CallRef struct {
	Local    string  `bson:"local" json:"local"`
	External *string `bson:"external,omitempty" json:"external,omitempty"`
}

// Session is one live or completed voice interview. Transcript, feedback and
// score are empty at creation and written exactly once at finalization.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4

	CandidateID   string  `bson:"candidate_id" json:"candidate_id"`
	ApplicationID *string `bson:"application_id,omitempty" json:"application_id,omitempty"`

	Kind    SessionKind `bson:"kind" json:"kind"`
	Status  string      `bson:"status" json:"status"` // active|completed
	CallRef CallRef     `bson:"call_ref" json:"call_ref"`

	Transcript string `bson:"transcript" json:"transcript"`
	Feedback   string `bson:"feedback" json:"feedback"`
	Score      int    `bson:"score" json:"score"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	FinalizedAt *time.Time `bson:"finalized_at,omitempty" json:"finalized_at,omitempty"`
}
