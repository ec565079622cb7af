package models

import "time"

// Application tracks one candidate's pursuit of one job posting. The
// composite unique index makes duplicate applications for the same pair a
// storage-level conflict, so two concurrent launches cannot both succeed.
type Application struct {
	ID           string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID  string            `gorm:"column:candidate_id;type:uuid;uniqueIndex:uniq_candidate_job" json:"candidate_id"`
	JobPostingID string            `gorm:"column:job_posting_id;type:uuid;uniqueIndex:uniq_candidate_job" json:"job_posting_id"`
	Status       ApplicationStatus `gorm:"column:status;type:text" json:"status"`

	// Back-reference to the screening interview, set at launch.
	SessionID *string `gorm:"column:session_id;type:uuid" json:"session_id,omitempty"`

	AppliedAt time.Time `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }
