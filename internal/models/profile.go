package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Profile is the candidate profile. At most one per account, enforced by the
// unique index on user_id; EnsureProfile is the only creation path.
type Profile struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id"`

	// Contact address outcome notifications are sent to.
	Email string `gorm:"column:email;type:text" json:"email"`

	// Supplied by the external résumé producer.
	ResumeText string         `gorm:"column:resume_text;type:text" json:"resume_text"`
	ResumeURL  string         `gorm:"column:resume_url;type:text" json:"resume_url"`
	Skills     pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	Experience datatypes.JSON `gorm:"column:experience;type:jsonb" json:"experience"`
	Education  datatypes.JSON `gorm:"column:education;type:jsonb" json:"education"`

	ResumeEmbedding pgvector.Vector `gorm:"column:resume_embedding;type:vector(768)" json:"resume_embedding"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "candidate_profiles" }
