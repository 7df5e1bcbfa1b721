package applications

import (
	"context"
	"errors"
	"log"
	"strings"

	"devjobs/internal/domain/application"
	"devjobs/internal/domain/job"
	"devjobs/internal/domain/policy"
	"devjobs/internal/domain/user"
	"devjobs/internal/notifier"
	"devjobs/internal/repository"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrJobNotFound    = errors.New("job not found")
	ErrJobNotOpen     = errors.New("job is not accepting applications")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrMissingFields  = errors.New("cover letter and resume are required")
	ErrInvalidStatus  = errors.New("invalid application status")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal error")
)

type ApplyInput struct {
	JobID       int64
	CoverLetter string
	ResumeURL   string
}

// Detail is the single-application projection. Job and Applicant are
// filled in depending on who is asking: the applicant sees the job, the
// employer sees the applicant, admins see both.
type Detail struct {
	Application application.Application
	Job         *job.Job
	Applicant   *user.User
}

type Service struct {
	apps   repository.ApplicationRepository
	jobs   repository.JobRepository
	users  repository.UserRepository
	notif  notifier.Notifier
	logger *log.Logger
}

func NewService(apps repository.ApplicationRepository, jobs repository.JobRepository, users repository.UserRepository, notif notifier.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if notif == nil {
		notif = notifier.NewLogNotifier(logger)
	}
	return &Service{apps: apps, jobs: jobs, users: users, notif: notif, logger: logger}
}

func (s *Service) Apply(ctx context.Context, actorID int64, in ApplyInput) (application.Application, error) {
	actor, seeker, err := s.actor(ctx, actorID)
	if err != nil {
		return application.Application{}, err
	}
	if err := policy.RoleGate(actor, policy.ActionApplyToJob).Err(); err != nil {
		return application.Application{}, err
	}

	j, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}
	if j.Status != job.StatusApproved {
		return application.Application{}, ErrJobNotOpen
	}

	exists, err := s.apps.ExistsByUserAndJob(ctx, actorID, in.JobID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if exists {
		return application.Application{}, ErrAlreadyApplied
	}

	coverLetter := strings.TrimSpace(in.CoverLetter)
	resumeURL := strings.TrimSpace(in.ResumeURL)
	if coverLetter == "" || resumeURL == "" {
		return application.Application{}, ErrMissingFields
	}

	created, err := s.apps.Create(ctx, application.Application{
		CoverLetter: coverLetter,
		ResumeURL:   resumeURL,
		Status:      application.StatusPending,
		UserID:      actorID,
		JobID:       in.JobID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateApplication):
			return application.Application{}, ErrAlreadyApplied
		case errors.Is(err, repository.ErrJobNotOpen):
			return application.Application{}, ErrJobNotOpen
		case errors.Is(err, job.ErrNotFound):
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}

	// The application is committed; mail failures must not undo it and
	// one recipient failing must not skip the other.
	s.notify(ctx, seeker.Email, notifier.KindApplicationSubmitted, notifier.Data{
		FirstName: seeker.FirstName,
		JobTitle:  j.Title,
		Company:   j.Company,
	})
	if employer, err := s.users.GetByID(ctx, j.EmployerID); err == nil {
		s.notify(ctx, employer.Email, notifier.KindApplicationReceived, notifier.Data{
			FirstName:     employer.FirstName,
			JobTitle:      j.Title,
			Company:       j.Company,
			ApplicantName: seeker.FullName(),
		})
	} else {
		s.logger.Printf("applications: employer lookup for notify failed: %v", err)
	}

	return created, nil
}

// ListOwn returns the caller's applications with their jobs embedded.
func (s *Service) ListOwn(ctx context.Context, actorID int64) ([]repository.ApplicationWithJob, error) {
	actor, _, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.RoleGate(actor, policy.ActionViewOwnApplications).Err(); err != nil {
		return nil, err
	}

	items, err := s.apps.ListByUser(ctx, actorID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// ListForJob returns a posting's applications with applicants embedded.
// Only the owning employer and admins may call it.
func (s *Service) ListForJob(ctx context.Context, actorID, jobID int64) ([]repository.ApplicationWithUser, error) {
	actor, _, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.RoleGate(actor, policy.ActionViewJobApplications).Err(); err != nil {
		return nil, err
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, ErrInternal
	}

	if err := policy.Decide(actor, policy.ActionViewJobApplications, policy.Resource{JobEmployerID: j.EmployerID}).Err(); err != nil {
		return nil, err
	}

	items, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actorID, appID int64, status string) (application.Application, error) {
	actor, _, err := s.actor(ctx, actorID)
	if err != nil {
		return application.Application{}, err
	}
	if err := policy.RoleGate(actor, policy.ActionUpdateApplicationStatus).Err(); err != nil {
		return application.Application{}, err
	}

	next := application.Status(status)
	if !next.Valid() {
		return application.Application{}, ErrInvalidStatus
	}

	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, ErrInternal
	}

	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return application.Application{}, ErrInternal
	}

	if err := policy.Decide(actor, policy.ActionUpdateApplicationStatus, policy.Resource{JobEmployerID: j.EmployerID}).Err(); err != nil {
		return application.Application{}, err
	}

	updated, err := s.apps.UpdateStatus(ctx, appID, next)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, ErrInternal
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, actorID, appID int64) (Detail, error) {
	actor, _, err := s.actor(ctx, actorID)
	if err != nil {
		return Detail{}, err
	}
	if err := policy.RoleGate(actor, policy.ActionViewApplication).Err(); err != nil {
		return Detail{}, err
	}

	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, ErrInternal
	}

	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return Detail{}, ErrInternal
	}

	if err := policy.Decide(actor, policy.ActionViewApplication, policy.Resource{
		JobEmployerID: j.EmployerID,
		ApplicantID:   app.UserID,
	}).Err(); err != nil {
		return Detail{}, err
	}

	d := Detail{Application: app}

	isOwnerEmployer := actor.Role == user.RoleEmployer && actor.ID == j.EmployerID
	isApplicant := actor.ID == app.UserID
	isAdmin := actor.Role == user.RoleAdmin

	if isApplicant || isAdmin {
		d.Job = &j
	}
	if isOwnerEmployer || isAdmin {
		applicant, err := s.users.GetByID(ctx, app.UserID)
		if err != nil {
			return Detail{}, ErrInternal
		}
		applicant = applicant.Sanitize()
		d.Applicant = &applicant
	}
	return d, nil
}

func (s *Service) actor(ctx context.Context, actorID int64) (policy.Actor, user.User, error) {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return policy.Actor{}, user.User{}, ErrUnauthorized
		}
		return policy.Actor{}, user.User{}, ErrInternal
	}
	return policy.Actor{ID: u.ID, Role: u.Role}, u, nil
}

func (s *Service) notify(ctx context.Context, recipient string, kind notifier.Kind, data notifier.Data) {
	if err := s.notif.Notify(ctx, recipient, kind, data); err != nil {
		s.logger.Printf("applications: %s notification to %s failed: %v", kind, recipient, err)
	}
}
