package jobs

import (
	"context"
	"errors"
	"log"
	"strings"

	"devjobs/internal/domain/application"
	"devjobs/internal/domain/job"
	"devjobs/internal/domain/policy"
	"devjobs/internal/domain/user"
	"devjobs/internal/pkg/pagination"
	"devjobs/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

var (
	ErrNotFound      = errors.New("job not found")
	ErrMissingFields = errors.New("missing required fields")
	ErrNoSkills      = errors.New("at least one skill is required")
	ErrInvalidType   = errors.New("invalid employment type")
	ErrInvalidLevel  = errors.New("invalid experience level")
	ErrSalaryRange   = errors.New("maximum salary must not be below minimum salary")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternal      = errors.New("internal error")
)

type CreateInput struct {
	Title           string
	Description     string
	Requirements    string
	Benefits        string
	Location        string
	SalaryMin       *int
	SalaryMax       *int
	Skills          []string
	Type            string
	ExperienceLevel string
	Remote          bool
}

// UpdateInput patches a job; nil fields are left untouched.
type UpdateInput struct {
	Title           *string
	Description     *string
	Requirements    *string
	Benefits        *string
	Location        *string
	SalaryMin       *int
	SalaryMax       *int
	Skills          []string
	Type            *string
	ExperienceLevel *string
	Remote          *bool
}

type ListParams struct {
	Search   string
	Location string
	Page     int
	PageSize int
}

// Detail is the single-job projection. Applications is populated only
// for the owning employer and admins.
type Detail struct {
	Job                 job.Job
	Applications        []application.Application
	IncludeApplications bool
}

type Service struct {
	jobs   repository.JobRepository
	users  repository.UserRepository
	apps   repository.ApplicationRepository
	logger *log.Logger
}

func NewService(jobs repository.JobRepository, users repository.UserRepository, apps repository.ApplicationRepository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{jobs: jobs, users: users, apps: apps, logger: logger}
}

func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (job.Job, error) {
	employer, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return job.Job{}, ErrUnauthorized
		}
		return job.Job{}, ErrInternal
	}
	actor := policy.Actor{ID: employer.ID, Role: employer.Role}
	if err := policy.RoleGate(actor, policy.ActionCreateJob).Err(); err != nil {
		return job.Job{}, err
	}

	j := job.Job{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Requirements:    strings.TrimSpace(in.Requirements),
		Benefits:        strings.TrimSpace(in.Benefits),
		Location:        strings.TrimSpace(in.Location),
		SalaryMin:       in.SalaryMin,
		SalaryMax:       in.SalaryMax,
		Skills:          cleanSkills(in.Skills),
		Type:            job.EmploymentType(defaultString(in.Type, string(job.TypeFullTime))),
		ExperienceLevel: job.ExperienceLevel(defaultString(in.ExperienceLevel, string(job.LevelMid))),
		Remote:          in.Remote,
		// Every new posting waits for moderation regardless of input.
		Status:     job.StatusPending,
		Company:    employer.Company,
		EmployerID: actorID,
	}

	if err := validateJob(j); err != nil {
		return job.Job{}, err
	}

	created, err := s.jobs.Create(ctx, j)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, actorID, jobID int64, in UpdateInput) (job.Job, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return job.Job{}, err
	}
	if err := policy.RoleGate(actor, policy.ActionEditJob).Err(); err != nil {
		return job.Job{}, err
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}

	if err := policy.Decide(actor, policy.ActionEditJob, policy.Resource{JobEmployerID: j.EmployerID}).Err(); err != nil {
		return job.Job{}, err
	}

	applyPatch(&j, in)

	if err := validateJob(j); err != nil {
		return job.Job{}, err
	}

	// Any edit to a decided posting re-enters moderation.
	if j.Decided() {
		j.Status = job.StatusPending
	}

	updated, err := s.jobs.Update(ctx, j)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	return updated, nil
}

// Delete removes the posting and, through the storage cascade, every
// application attached to it.
func (s *Service) Delete(ctx context.Context, actorID, jobID int64) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := policy.RoleGate(actor, policy.ActionDeleteJob).Err(); err != nil {
		return err
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	if err := policy.Decide(actor, policy.ActionDeleteJob, policy.Resource{JobEmployerID: j.EmployerID}).Err(); err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

// List is the public listing: approved postings only, no actor needed.
func (s *Service) List(ctx context.Context, params ListParams) ([]job.Job, pagination.Meta, error) {
	page, size := pagination.Clamp(params.Page, params.PageSize, DefaultPageSize, MaxPageSize)

	items, total, err := s.jobs.ListApproved(ctx, repository.JobListFilter{
		Search:   params.Search,
		Location: params.Location,
		Limit:    size,
		Offset:   pagination.Offset(page, size),
	})
	if err != nil {
		return nil, pagination.Meta{}, ErrInternal
	}
	return items, pagination.NewMeta(total, page, size), nil
}

// Get serves the optional-auth detail view. actorID is nil for
// anonymous callers, who get the public projection; the owning employer
// and admins additionally see the job's applications.
func (s *Service) Get(ctx context.Context, actorID *int64, jobID int64) (Detail, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, ErrInternal
	}

	d := Detail{Job: j}
	if actorID == nil {
		return d, nil
	}

	actor, err := s.users.GetByID(ctx, *actorID)
	if err != nil {
		// A stale token degrades to the public projection.
		return d, nil
	}

	if actor.Role == user.RoleAdmin || (actor.Role == user.RoleEmployer && actor.ID == j.EmployerID) {
		withUsers, err := s.apps.ListByJob(ctx, jobID)
		if err != nil {
			return Detail{}, ErrInternal
		}
		d.IncludeApplications = true
		d.Applications = make([]application.Application, 0, len(withUsers))
		for _, a := range withUsers {
			d.Applications = append(d.Applications, a.Application)
		}
	}
	return d, nil
}

func (s *Service) actor(ctx context.Context, actorID int64) (policy.Actor, error) {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return policy.Actor{}, ErrUnauthorized
		}
		return policy.Actor{}, ErrInternal
	}
	return policy.Actor{ID: u.ID, Role: u.Role}, nil
}

func validateJob(j job.Job) error {
	if j.Title == "" || j.Description == "" || j.Requirements == "" || j.Location == "" {
		return ErrMissingFields
	}
	if len(j.Skills) == 0 {
		return ErrNoSkills
	}
	if !j.Type.Valid() {
		return ErrInvalidType
	}
	if !j.ExperienceLevel.Valid() {
		return ErrInvalidLevel
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMax < *j.SalaryMin {
		return ErrSalaryRange
	}
	return nil
}

func applyPatch(j *job.Job, in UpdateInput) {
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = strings.TrimSpace(*in.Description)
	}
	if in.Requirements != nil {
		j.Requirements = strings.TrimSpace(*in.Requirements)
	}
	if in.Benefits != nil {
		j.Benefits = strings.TrimSpace(*in.Benefits)
	}
	if in.Location != nil {
		j.Location = strings.TrimSpace(*in.Location)
	}
	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.Skills != nil {
		j.Skills = cleanSkills(in.Skills)
	}
	if in.Type != nil {
		j.Type = job.EmploymentType(*in.Type)
	}
	if in.ExperienceLevel != nil {
		j.ExperienceLevel = job.ExperienceLevel(*in.ExperienceLevel)
	}
	if in.Remote != nil {
		j.Remote = *in.Remote
	}
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk == "" {
			continue
		}
		out = append(out, sk)
	}
	return out
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
