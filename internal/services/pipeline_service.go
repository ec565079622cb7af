package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/notify"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/utils"
)

// Pipeline is the application status state machine. It is the only writer of
// Application.Status; transitions outside the table are rejected, and
// terminal transitions trigger the outcome mail.
type Pipeline interface {
	Advance(ctx context.Context, applicationID string, target models.ApplicationStatus, actor models.Actor) (*models.Application, error)
	GetForRecruiter(ctx context.Context, applicationID string, actor models.Actor) (*ApplicationDetail, error)
}

type ApplicationDetail struct {
	Application *models.Application `json:"application"`
	Job         *models.JobPosting  `json:"job"`
	CompanyName string              `json:"company_name"`
	Candidate   *models.Profile     `json:"candidate"`
	// The candidate's most recent résumé document; nil if none was uploaded.
	ResumeFile *models.ResumeFile `json:"resume_file,omitempty"`
}

type pipeline struct {
	apps       pgrepo.ApplicationRepository
	jobs       pgrepo.JobRepository
	profiles   pgrepo.ProfileRepository
	recruiters pgrepo.RecruiterRepository
	files      pgrepo.ResumeFileRepository
	dispatcher notify.Dispatcher
	log        *logrus.Logger
}

func NewPipeline(
	apps pgrepo.ApplicationRepository,
	jobs pgrepo.JobRepository,
	profiles pgrepo.ProfileRepository,
	recruiters pgrepo.RecruiterRepository,
	files pgrepo.ResumeFileRepository,
	dispatcher notify.Dispatcher,
	log *logrus.Logger,
) Pipeline {
	return &pipeline{
		apps:       apps,
		jobs:       jobs,
		profiles:   profiles,
		recruiters: recruiters,
		files:      files,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (p *pipeline) Advance(ctx context.Context, applicationID string, target models.ApplicationStatus, actor models.Actor) (*models.Application, error) {
	const op = "Pipeline.Advance"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}
	if !target.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown target status", nil)
	}

	app, err := p.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}

	job, err := p.jobs.GetByID(ctx, app.JobPostingID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get job posting", err)
	}

	if err := p.authorize(ctx, target, actor, job); err != nil {
		return nil, err
	}

	if !app.Status.CanTransition(target) {
		return nil, utils.E(utils.CodeConflict, op, "illegal status transition", nil)
	}

	if err := p.apps.UpdateStatus(ctx, app.ID, app.Status, target); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// lost a concurrent transition; the row no longer carries the
			// status we validated against
			return nil, utils.E(utils.CodeConflict, op, "application status changed concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	app.Status = target

	// Terminal transitions notify the candidate. Dispatch never undoes the
	// committed status write.
	if target.Terminal() {
		if err := p.notifyOutcome(ctx, app, job, target); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"application_id": app.ID,
				"status":         target,
			}).Warn("outcome notification failed")
		}
	}
	return app, nil
}

// authorize: the AI screening transition belongs to the orchestrator; every
// other transition requires a recruiter of the company owning the job.
func (p *pipeline) authorize(ctx context.Context, target models.ApplicationStatus, actor models.Actor, job *models.JobPosting) error {
	const op = "Pipeline.Advance"

	if target == models.StatusAIScreeningComplete {
		if !actor.System {
			return utils.E(utils.CodeForbidden, op, "screening completion is system-driven", nil)
		}
		return nil
	}
	if actor.System {
		return nil
	}

	if actor.Role != models.RoleRecruiter {
		return utils.E(utils.CodeForbidden, op, "recruiter role required", nil)
	}
	rec, err := p.recruiters.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeForbidden, op, "recruiter profile not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get recruiter", err)
	}
	if rec.CompanyID != job.CompanyID {
		return utils.E(utils.CodeForbidden, op, "application does not belong to your company", nil)
	}
	return nil
}

func (p *pipeline) notifyOutcome(ctx context.Context, app *models.Application, job *models.JobPosting, target models.ApplicationStatus) error {
	candidate, err := p.profiles.GetByID(ctx, app.CandidateID)
	if err != nil {
		return err
	}
	if candidate.Email == "" {
		return errors.New("candidate has no contact email")
	}
	company, err := p.jobs.GetCompany(ctx, job.CompanyID)
	if err != nil {
		return err
	}

	var subject, body string
	switch target {
	case models.StatusOffered:
		subject = notify.OfferedSubject(company.Name)
		body = notify.OfferedBody(job.Title, company.Name)
	case models.StatusRejected:
		subject = notify.RejectedSubject(company.Name)
		body = notify.RejectedBody(job.Title, company.Name)
	}
	return p.dispatcher.Send(ctx, candidate.Email, subject, body)
}

func (p *pipeline) GetForRecruiter(ctx context.Context, applicationID string, actor models.Actor) (*ApplicationDetail, error) {
	const op = "Pipeline.GetForRecruiter"

	app, err := p.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	job, err := p.jobs.GetByID(ctx, app.JobPostingID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get job posting", err)
	}

	if actor.Role != models.RoleRecruiter {
		return nil, utils.E(utils.CodeForbidden, op, "recruiter role required", nil)
	}
	rec, err := p.recruiters.GetByUserID(ctx, actor.UserID)
	if err != nil || rec.CompanyID != job.CompanyID {
		return nil, utils.E(utils.CodeForbidden, op, "application does not belong to your company", err)
	}

	company, err := p.jobs.GetCompany(ctx, job.CompanyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	candidate, err := p.profiles.GetByID(ctx, app.CandidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate profile", err)
	}

	file, err := p.files.LatestByUser(ctx, candidate.UserID)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get resume file", err)
		}
		file = nil
	}

	return &ApplicationDetail{
		Application: app,
		Job:         job,
		CompanyName: company.Name,
		Candidate:   candidate,
		ResumeFile:  file,
	}, nil
}
