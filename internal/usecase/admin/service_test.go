package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"devjobs/internal/domain/application"
	"devjobs/internal/domain/job"
	"devjobs/internal/domain/policy"
	"devjobs/internal/domain/user"
	"devjobs/internal/notifier"
	"devjobs/internal/repository"
)

type mockUserRepo struct {
	users map[int64]user.User

	listUsers []user.User
	listTotal int64
	listLimit int
	listOff   int

	deleted []int64

	total    int64
	byRole   map[string]int64
	recent   int64
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }
func (m *mockUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
func (m *mockUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m *mockUserRepo) Update(_ context.Context, u user.User) (user.User, error) { return u, nil }
func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}
func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]user.User, int64, error) {
	m.listLimit, m.listOff = limit, offset
	return m.listUsers, m.listTotal, nil
}
func (m *mockUserRepo) Count(context.Context) (int64, error) { return m.total, nil }
func (m *mockUserRepo) CountByRole(context.Context) (map[string]int64, error) {
	return m.byRole, nil
}
func (m *mockUserRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return m.recent, nil
}

type mockJobRepo struct {
	jobs map[int64]job.Job

	total    int64
	byStatus map[string]int64
	recent   int64
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) (job.Job, error) { return j, nil }
func (m *mockJobRepo) GetByID(_ context.Context, id int64) (job.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}
func (m *mockJobRepo) Update(_ context.Context, j job.Job) (job.Job, error) { return j, nil }
func (m *mockJobRepo) Delete(context.Context, int64) error                  { return nil }
func (m *mockJobRepo) ListApproved(context.Context, repository.JobListFilter) ([]job.Job, int64, error) {
	return nil, 0, nil
}
func (m *mockJobRepo) ListByStatus(_ context.Context, status job.Status) ([]job.Job, error) {
	var out []job.Job
	for _, j := range m.jobs {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}
func (m *mockJobRepo) SetStatus(_ context.Context, id int64, status job.Status) (job.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	j.Status = status
	m.jobs[id] = j
	return j, nil
}
func (m *mockJobRepo) Count(context.Context) (int64, error) { return m.total, nil }
func (m *mockJobRepo) CountByStatus(context.Context) (map[string]int64, error) {
	return m.byStatus, nil
}
func (m *mockJobRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return m.recent, nil
}

type mockAppRepo struct {
	total    int64
	byStatus map[string]int64
	recent   int64
}

func (m *mockAppRepo) Create(_ context.Context, a application.Application) (application.Application, error) {
	return a, nil
}
func (m *mockAppRepo) GetByID(context.Context, int64) (application.Application, error) {
	return application.Application{}, application.ErrNotFound
}
func (m *mockAppRepo) ExistsByUserAndJob(context.Context, int64, int64) (bool, error) {
	return false, nil
}
func (m *mockAppRepo) ListByUser(context.Context, int64) ([]repository.ApplicationWithJob, error) {
	return nil, nil
}
func (m *mockAppRepo) ListByJob(context.Context, int64) ([]repository.ApplicationWithUser, error) {
	return nil, nil
}
func (m *mockAppRepo) UpdateStatus(context.Context, int64, application.Status) (application.Application, error) {
	return application.Application{}, application.ErrNotFound
}
func (m *mockAppRepo) Count(context.Context) (int64, error) { return m.total, nil }
func (m *mockAppRepo) CountByStatus(context.Context) (map[string]int64, error) {
	return m.byStatus, nil
}
func (m *mockAppRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return m.recent, nil
}

type recordingNotifier struct {
	sent []sentMail
}

type sentMail struct {
	recipient string
	kind      notifier.Kind
	reason    string
}

func (n *recordingNotifier) Notify(_ context.Context, recipient string, kind notifier.Kind, data notifier.Data) error {
	n.sent = append(n.sent, sentMail{recipient: recipient, kind: kind, reason: data.Reason})
	return nil
}

func fixture() (*Service, *mockUserRepo, *mockJobRepo, *recordingNotifier) {
	users := &mockUserRepo{users: map[int64]user.User{
		1: {ID: 1, Email: "seeker@example.com", Role: user.RoleSeeker},
		2: {ID: 2, Email: "emp@example.com", FirstName: "Erin", Role: user.RoleEmployer, Company: "Acme", PasswordHash: "secret"},
		4: {ID: 4, Email: "admin@example.com", Role: user.RoleAdmin},
	}}
	jobs := &mockJobRepo{jobs: map[int64]job.Job{
		10: {ID: 10, Title: "Platform Engineer", Company: "Acme", Status: job.StatusPending, EmployerID: 2},
		11: {ID: 11, Title: "Approved Role", Company: "Acme", Status: job.StatusApproved, EmployerID: 2},
	}}
	notif := &recordingNotifier{}
	return NewService(users, jobs, &mockAppRepo{}, notif, nil), users, jobs, notif
}

func TestPendingJobs(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	items, err := svc.PendingJobs(ctx, 4)
	if err != nil {
		t.Fatalf("pending jobs: %v", err)
	}
	if len(items) != 1 || items[0].Job.ID != 10 {
		t.Fatalf("expected only the pending job, got %+v", items)
	}
	if items[0].Employer.ID != 2 {
		t.Fatalf("employer not embedded: %+v", items[0])
	}
	if items[0].Employer.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}

	var fe *policy.ForbiddenError
	if _, err := svc.PendingJobs(ctx, 2); !errors.As(err, &fe) {
		t.Fatalf("employer: expected forbidden, got %v", err)
	}
	if _, err := svc.PendingJobs(ctx, 999); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ghost: expected ErrUnauthorized, got %v", err)
	}
}

func TestApproveJob(t *testing.T) {
	svc, _, jobs, notif := fixture()
	ctx := context.Background()

	updated, err := svc.ApproveJob(ctx, 4, 10)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.Status != job.StatusApproved {
		t.Fatalf("status = %q, want approved", updated.Status)
	}
	if jobs.jobs[10].Status != job.StatusApproved {
		t.Fatalf("store not updated")
	}
	if len(notif.sent) != 1 || notif.sent[0].kind != notifier.KindJobApproved || notif.sent[0].recipient != "emp@example.com" {
		t.Fatalf("expected approval mail to employer, got %+v", notif.sent)
	}

	// Already decided.
	if _, err := svc.ApproveJob(ctx, 4, 10); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-approve: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.ApproveJob(ctx, 4, 11); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve approved: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.ApproveJob(ctx, 4, 999); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	var fe *policy.ForbiddenError
	if _, err := svc.ApproveJob(ctx, 2, 10); !errors.As(err, &fe) {
		t.Fatalf("employer approve: expected forbidden, got %v", err)
	}
}

func TestRejectJob(t *testing.T) {
	svc, _, jobs, notif := fixture()
	ctx := context.Background()

	updated, err := svc.RejectJob(ctx, 4, 10, "spam posting")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != job.StatusRejected {
		t.Fatalf("status = %q, want rejected", updated.Status)
	}
	if jobs.jobs[10].Status != job.StatusRejected {
		t.Fatalf("store not updated")
	}
	if len(notif.sent) != 1 || notif.sent[0].kind != notifier.KindJobRejected {
		t.Fatalf("expected rejection mail, got %+v", notif.sent)
	}
	if notif.sent[0].reason != "spam posting" {
		t.Fatalf("reason not forwarded: %+v", notif.sent[0])
	}
}

func TestStats(t *testing.T) {
	svc, users, jobs, _ := fixture()
	users.total = 30
	users.byRole = map[string]int64{"seeker": 20, "employer": 9, "admin": 1}
	users.recent = 5
	jobs.total = 12
	jobs.byStatus = map[string]int64{"pending": 2, "approved": 9, "rejected": 1}
	jobs.recent = 3

	st, err := svc.Stats(context.Background(), 4)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalUsers != 30 || st.TotalJobs != 12 {
		t.Fatalf("totals wrong: %+v", st)
	}
	if st.PendingJobs != 2 {
		t.Fatalf("pending jobs = %d, want 2", st.PendingJobs)
	}
	if st.UsersByRole["seeker"] != 20 || st.JobsByStatus["approved"] != 9 {
		t.Fatalf("breakdowns wrong: %+v", st)
	}
	if st.RecentUsers != 5 || st.RecentJobs != 3 {
		t.Fatalf("recent activity wrong: %+v", st)
	}

	var fe *policy.ForbiddenError
	if _, err := svc.Stats(context.Background(), 1); !errors.As(err, &fe) {
		t.Fatalf("seeker stats: expected forbidden, got %v", err)
	}
}

func TestUsers_ClampsPaging(t *testing.T) {
	svc, users, _, _ := fixture()
	users.listUsers = []user.User{{ID: 1, PasswordHash: "secret"}}
	users.listTotal = 150

	got, meta, err := svc.Users(context.Background(), 4, 0, 500)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if users.listLimit != MaxUserPageSize || users.listOff != 0 {
		t.Fatalf("limit=%d offset=%d, want %d/0", users.listLimit, users.listOff, MaxUserPageSize)
	}
	if meta.Total != 150 {
		t.Fatalf("meta = %+v", meta)
	}
	if got[0].PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}

	if _, _, err := svc.Users(context.Background(), 4, 0, 0); err != nil {
		t.Fatalf("default users: %v", err)
	}
	if users.listLimit != DefaultUserPageSize {
		t.Fatalf("default limit = %d, want %d", users.listLimit, DefaultUserPageSize)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, users, _, _ := fixture()
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, 4, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(users.deleted) != 1 || users.deleted[0] != 2 {
		t.Fatalf("delete not forwarded: %+v", users.deleted)
	}

	if err := svc.DeleteUser(ctx, 4, 4); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("self delete: expected ErrSelfDelete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, 4, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	var fe *policy.ForbiddenError
	if err := svc.DeleteUser(ctx, 1, 2); !errors.As(err, &fe) {
		t.Fatalf("seeker delete: expected forbidden, got %v", err)
	}
}
