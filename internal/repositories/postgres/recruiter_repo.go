package postgres

import (
	"context"
	"errors"

	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
	"gorm.io/gorm"
)

type RecruiterRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Recruiter, error)
}

type recruiterRepo struct {
	db *gorm.DB
}

func NewRecruiterRepo(db *gorm.DB) RecruiterRepository {
	return &recruiterRepo{db: db}
}

func (r *recruiterRepo) GetByUserID(ctx context.Context, userID string) (*models.Recruiter, error) {
	var rec models.Recruiter
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &rec, err
}
