package models

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// Actor is the verified identity behind an operation. Identity resolution is
// external; the core trusts the account id and role handed to it. System is
// set only for transitions the orchestrator performs on its own behalf.
type Actor struct {
	UserID string
	Role   Role
	System bool
}

func SystemActor() Actor { return Actor{System: true} }
