package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"devjobs/internal/database"
	"devjobs/internal/domain/application"
	"devjobs/internal/domain/job"
	"devjobs/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ApplicationWithJob embeds the job for the seeker-facing projection.
type ApplicationWithJob struct {
	application.Application
	Job job.Job
}

// ApplicationWithUser embeds the applicant for the employer/admin
// projection.
type ApplicationWithUser struct {
	application.Application
	Applicant user.User
}

type ApplicationRepository interface {
	// Create inserts the application inside one transaction that
	// re-checks the job is still approved. The unique (user_id, job_id)
	// constraint resolves concurrent applies: the loser gets
	// ErrDuplicateApplication, never a second row.
	Create(ctx context.Context, a application.Application) (application.Application, error)
	GetByID(ctx context.Context, id int64) (application.Application, error)
	ExistsByUserAndJob(ctx context.Context, userID, jobID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID int64) ([]ApplicationWithUser, error)
	UpdateStatus(ctx context.Context, id int64, status application.Status) (application.Application, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `a.id, a.cover_letter, a.resume_url, a.status, a.user_id, a.job_id, a.created_at, a.updated_at`

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return application.Application{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1 FOR SHARE`, a.JobID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, job.ErrNotFound
		}
		return application.Application{}, err
	}
	if job.Status(status) != job.StatusApproved {
		return application.Application{}, ErrJobNotOpen
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO applications (cover_letter, resume_url, status, user_id, job_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, cover_letter, resume_url, status, user_id, job_id, created_at, updated_at`,
		a.CoverLetter, a.ResumeURL, string(a.Status), a.UserID, a.JobID,
	)
	created, err := scanApplication(row)
	if err != nil {
		if isUniqueViolation(err) {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return application.Application{}, err
	}
	return created, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id int64) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) ExistsByUserAndJob(ctx context.Context, userID, jobID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]ApplicationWithJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`, `+jobColumns+`
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationWithJob, 0)
	for rows.Next() {
		var item ApplicationWithJob
		if err := scanApplicationWithJob(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]ApplicationWithUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`, `+userColumnsAliased+`
		 FROM applications a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.job_id = $1
		 ORDER BY a.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationWithUser, 0)
	for rows.Next() {
		var item ApplicationWithUser
		if err := scanApplicationWithUser(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id int64, status application.Status) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE applications a SET status = $2, updated_at = now() WHERE a.id = $1 RETURNING `+applicationColumns,
		id, string(status),
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n)
	return n, err
}

func (r *PostgresApplicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.db, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
}

func (r *PostgresApplicationRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

const userColumnsAliased = `u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, COALESCE(u.company, ''), u.created_at, u.updated_at`

func scanApplication(row scannable) (application.Application, error) {
	var a application.Application
	var status string
	err := row.Scan(&a.ID, &a.CoverLetter, &a.ResumeURL, &status, &a.UserID, &a.JobID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

func scanApplicationWithJob(row scannable, out *ApplicationWithJob) error {
	var appStatus, jobType, jobLevel, jobStatus string
	var salaryMin, salaryMax sql.NullInt64
	var skills []byte

	err := row.Scan(
		&out.Application.ID, &out.CoverLetter, &out.ResumeURL, &appStatus,
		&out.UserID, &out.JobID, &out.Application.CreatedAt, &out.Application.UpdatedAt,
		&out.Job.ID, &out.Job.Title, &out.Job.Description, &out.Job.Requirements,
		&out.Job.Benefits, &out.Job.Location, &salaryMin, &salaryMax, &skills,
		&jobType, &jobLevel, &out.Job.Remote, &jobStatus, &out.Job.Company,
		&out.Job.EmployerID, &out.Job.CreatedAt, &out.Job.UpdatedAt, &out.Job.ApplicationCount,
	)
	if err != nil {
		return err
	}

	out.Application.Status = application.Status(appStatus)
	out.Job.Type = job.EmploymentType(jobType)
	out.Job.ExperienceLevel = job.ExperienceLevel(jobLevel)
	out.Job.Status = job.Status(jobStatus)
	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		out.Job.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		out.Job.SalaryMax = &v
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &out.Job.Skills); err != nil {
			return err
		}
	}
	return nil
}

func scanApplicationWithUser(row scannable, out *ApplicationWithUser) error {
	var appStatus, role string
	err := row.Scan(
		&out.Application.ID, &out.CoverLetter, &out.ResumeURL, &appStatus,
		&out.UserID, &out.JobID, &out.Application.CreatedAt, &out.Application.UpdatedAt,
		&out.Applicant.ID, &out.Applicant.Email, &out.Applicant.PasswordHash,
		&out.Applicant.FirstName, &out.Applicant.LastName, &role,
		&out.Applicant.Company, &out.Applicant.CreatedAt, &out.Applicant.UpdatedAt,
	)
	if err != nil {
		return err
	}
	out.Application.Status = application.Status(appStatus)
	out.Applicant.Role = user.Role(role)
	return nil
}
