package admin

import (
	"context"
	"errors"
	"log"
	"time"

	"devjobs/internal/domain/job"
	"devjobs/internal/domain/policy"
	"devjobs/internal/domain/user"
	"devjobs/internal/notifier"
	"devjobs/internal/pkg/pagination"
	"devjobs/internal/repository"
)

const (
	DefaultUserPageSize = 20
	MaxUserPageSize     = 100

	recentWindow = 30 * 24 * time.Hour
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidTransition = errors.New("job has already been moderated")
	ErrSelfDelete        = errors.New("admins cannot delete their own account")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal error")
)

// PendingJob pairs a posting awaiting moderation with its employer.
type PendingJob struct {
	Job      job.Job
	Employer user.User
}

// Stats is the platform overview served to admins.
type Stats struct {
	TotalUsers         int64
	TotalJobs          int64
	TotalApplications  int64
	PendingJobs        int64
	UsersByRole        map[string]int64
	JobsByStatus       map[string]int64
	ApplicationsByStat map[string]int64
	RecentUsers        int64
	RecentJobs         int64
	RecentApplications int64
}

type Service struct {
	users  repository.UserRepository
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	notif  notifier.Notifier
	logger *log.Logger
	now    func() time.Time
}

func NewService(users repository.UserRepository, jobs repository.JobRepository, apps repository.ApplicationRepository, notif notifier.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if notif == nil {
		notif = notifier.NewLogNotifier(logger)
	}
	return &Service{users: users, jobs: jobs, apps: apps, notif: notif, logger: logger, now: time.Now}
}

func (s *Service) PendingJobs(ctx context.Context, actorID int64) ([]PendingJob, error) {
	if err := s.authorize(ctx, actorID, policy.ActionViewPendingJobs); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListByStatus(ctx, job.StatusPending)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]PendingJob, 0, len(jobs))
	for _, j := range jobs {
		employer, err := s.users.GetByID(ctx, j.EmployerID)
		if err != nil {
			return nil, ErrInternal
		}
		out = append(out, PendingJob{Job: j, Employer: employer.Sanitize()})
	}
	return out, nil
}

func (s *Service) ApproveJob(ctx context.Context, actorID, jobID int64) (job.Job, error) {
	return s.moderate(ctx, actorID, jobID, job.StatusApproved, "")
}

func (s *Service) RejectJob(ctx context.Context, actorID, jobID int64, reason string) (job.Job, error) {
	return s.moderate(ctx, actorID, jobID, job.StatusRejected, reason)
}

func (s *Service) moderate(ctx context.Context, actorID, jobID int64, status job.Status, reason string) (job.Job, error) {
	if err := s.authorize(ctx, actorID, policy.ActionModerateJob); err != nil {
		return job.Job{}, err
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}

	// Decisions are one-shot; a decided posting only re-enters the
	// queue when the employer edits it.
	if j.Status != job.StatusPending {
		return job.Job{}, ErrInvalidTransition
	}

	updated, err := s.jobs.SetStatus(ctx, jobID, status)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}

	if employer, err := s.users.GetByID(ctx, j.EmployerID); err == nil {
		kind := notifier.KindJobApproved
		if status == job.StatusRejected {
			kind = notifier.KindJobRejected
		}
		s.notify(ctx, employer.Email, kind, notifier.Data{
			FirstName: employer.FirstName,
			JobTitle:  j.Title,
			Company:   j.Company,
			Reason:    reason,
		})
	} else {
		s.logger.Printf("admin: employer lookup for notify failed: %v", err)
	}

	return updated, nil
}

func (s *Service) Stats(ctx context.Context, actorID int64) (Stats, error) {
	if err := s.authorize(ctx, actorID, policy.ActionViewStats); err != nil {
		return Stats{}, err
	}

	var (
		st    Stats
		err   error
		since = s.now().Add(-recentWindow)
	)

	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	if st.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	if st.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	if st.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	if st.JobsByStatus, err = s.jobs.CountByStatus(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	st.PendingJobs = st.JobsByStatus[string(job.StatusPending)]
	if st.ApplicationsByStat, err = s.apps.CountByStatus(ctx); err != nil {
		return Stats{}, ErrInternal
	}
	if st.RecentUsers, err = s.users.CountCreatedSince(ctx, since); err != nil {
		return Stats{}, ErrInternal
	}
	if st.RecentJobs, err = s.jobs.CountCreatedSince(ctx, since); err != nil {
		return Stats{}, ErrInternal
	}
	if st.RecentApplications, err = s.apps.CountCreatedSince(ctx, since); err != nil {
		return Stats{}, ErrInternal
	}
	return st, nil
}

func (s *Service) Users(ctx context.Context, actorID int64, page, pageSize int) ([]user.User, pagination.Meta, error) {
	if err := s.authorize(ctx, actorID, policy.ActionViewUsers); err != nil {
		return nil, pagination.Meta{}, err
	}

	page, size := pagination.Clamp(page, pageSize, DefaultUserPageSize, MaxUserPageSize)
	users, total, err := s.users.List(ctx, size, pagination.Offset(page, size))
	if err != nil {
		return nil, pagination.Meta{}, ErrInternal
	}
	for i := range users {
		users[i] = users[i].Sanitize()
	}
	return users, pagination.NewMeta(total, page, size), nil
}

// DeleteUser removes an account; storage cascades take the user's jobs
// and applications with it.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if err := s.authorize(ctx, actorID, policy.ActionDeleteUser); err != nil {
		return err
	}
	if actorID == userID {
		return ErrSelfDelete
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, actorID int64, action policy.Action) error {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnauthorized
		}
		return ErrInternal
	}
	return policy.RoleGate(policy.Actor{ID: u.ID, Role: u.Role}, action).Err()
}

func (s *Service) notify(ctx context.Context, recipient string, kind notifier.Kind, data notifier.Data) {
	if err := s.notif.Notify(ctx, recipient, kind, data); err != nil {
		s.logger.Printf("admin: %s notification to %s failed: %v", kind, recipient, err)
	}
}
