package models

type ApplicationStatus string

const (
	StatusApplied             ApplicationStatus = "APPLIED"
	StatusInterviewScheduled  ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusAIScreeningComplete ApplicationStatus = "AI_SCREENING_COMPLETE"
	StatusReviewedByRecruiter ApplicationStatus = "REVIEWED_BY_RECRUITER"
	StatusOffered             ApplicationStatus = "OFFERED"
	StatusRejected            ApplicationStatus = "REJECTED"
)

// statusTransitions is the full state machine. Anything not listed here is
// rejected, including every transition out of a terminal status.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:             {StatusInterviewScheduled, StatusAIScreeningComplete},
	StatusInterviewScheduled:  {StatusAIScreeningComplete},
	StatusAIScreeningComplete: {StatusReviewedByRecruiter, StatusOffered, StatusRejected},
	StatusReviewedByRecruiter: {StatusOffered, StatusRejected},
	StatusOffered:             {},
	StatusRejected:            {},
}

func (s ApplicationStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s ApplicationStatus) Terminal() bool {
	return s == StatusOffered || s == StatusRejected
}

// CanTransition reports whether target is a legal next status from s.
func (s ApplicationStatus) CanTransition(target ApplicationStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
