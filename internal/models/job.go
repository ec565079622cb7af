package models

import (
	"time"

	"github.com/lib/pq"
)

type Company struct {
	ID   string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:text" json:"name"`
}

func (Company) TableName() string { return "companies" }

// Recruiter binds an account to the company it screens for.
type Recruiter struct {
	UserID    string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	CompanyID string `gorm:"column:company_id;type:uuid;index" json:"company_id"`
}

func (Recruiter) TableName() string { return "recruiter_profiles" }

// JobPosting is read-only to the orchestrator: it only consumes identity,
// IsActive and the fields needed for outcome notifications.
type JobPosting struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID    string         `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	Title        string         `gorm:"column:title;type:text" json:"title"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	Requirements pq.StringArray `gorm:"column:requirements;type:text[]" json:"requirements"`
	IsActive     bool           `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (JobPosting) TableName() string { return "job_postings" }
