package postgres

import (
	"context"
	"errors"

	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.JobPosting, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.JobPosting, error) {
	var j models.JobPosting
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}
