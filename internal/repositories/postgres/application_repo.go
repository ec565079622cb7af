package postgres

import (
	"context"
	"errors"

	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Insert(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	FindByCandidateAndJob(ctx context.Context, candidateID, jobPostingID string) (*models.Application, error)
	// UpdateStatus is a compare-and-set on the status column; it reports
	// ErrNotFound when the row no longer carries the expected status.
	UpdateStatus(ctx context.Context, id string, from, to models.ApplicationStatus) error
	Delete(ctx context.Context, id string) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// (candidate_id, job_posting_id) unique index: the loser of a
		// concurrent double-apply lands here.
		return utils.ErrDuplicate
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) FindByCandidateAndJob(ctx context.Context, candidateID, jobPostingID string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_posting_id = ?", candidateID, jobPostingID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, from, to models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": gorm.Expr("now()")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// Delete exists only as the compensating action of a failed session+application
// launch; the core never deletes applications otherwise.
func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Application{}).Error
}
