package postgres

import (
	"context"
	"errors"

	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
	"gorm.io/gorm"
)

type ResumeFileRepository interface {
	Insert(ctx context.Context, f *models.ResumeFile) error
	LatestByUser(ctx context.Context, userID string) (*models.ResumeFile, error)
}

type resumeFileRepo struct {
	db *gorm.DB
}

func NewResumeFileRepo(db *gorm.DB) ResumeFileRepository {
	return &resumeFileRepo{db: db}
}

func (r *resumeFileRepo) Insert(ctx context.Context, f *models.ResumeFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *resumeFileRepo) LatestByUser(ctx context.Context, userID string) (*models.ResumeFile, error) {
	var row models.ResumeFile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
