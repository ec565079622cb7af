package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/voxhire/voxhire/internal/models"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/utils"
	"gorm.io/datatypes"
)

type ProfileService interface {
	// EnsureProfile returns the account's profile, creating an empty one on
	// first use. Idempotent; every entry point that needs a profile goes
	// through here.
	EnsureProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	UpdateResume(ctx context.Context, userID string, upd ResumeUpdate) (*models.Profile, error)
	SetResumeURL(ctx context.Context, userID, url string) error
}

// ResumeUpdate is what the external résumé producer pushes: extracted text,
// parsed sections and an optional embedding. Nil fields keep current values.
type ResumeUpdate struct {
	Email      *string
	ResumeText *string
	Skills     *[]string
	Experience *json.RawMessage
	Education  *json.RawMessage
	Embedding  []float32
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) EnsureProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.EnsureProfile"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	fresh := &models.Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.profiles.Insert(ctx, fresh); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			// lost a concurrent create; the winner's row is the profile
			p, err = s.profiles.GetByUserID(ctx, userID)
			if err != nil {
				return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
			}
			return p, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create profile", err)
	}
	return fresh, nil
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) UpdateResume(ctx context.Context, userID string, upd ResumeUpdate) (*models.Profile, error) {
	const op = "ProfileService.UpdateResume"

	p, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		p.Email = *upd.Email
	}
	if upd.ResumeText != nil {
		p.ResumeText = *upd.ResumeText
	}
	if upd.Skills != nil {
		p.Skills = *upd.Skills
	}
	if upd.Experience != nil {
		p.Experience = datatypes.JSON(*upd.Experience)
	}
	if upd.Education != nil {
		p.Education = datatypes.JSON(*upd.Education)
	}
	if len(upd.Embedding) > 0 {
		p.ResumeEmbedding = pgvector.NewVector(upd.Embedding)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return p, nil
}

func (s *profileService) SetResumeURL(ctx context.Context, userID, url string) error {
	const op = "ProfileService.SetResumeURL"

	p, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return err
	}
	p.ResumeURL = url
	p.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return nil
}
