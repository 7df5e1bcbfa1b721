package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"devjobs/internal/database"
	"devjobs/internal/domain/job"

	"github.com/jackc/pgx/v5"
)

// JobListFilter narrows the public listing. Search matches title,
// description and company as case-insensitive substrings, or a skill
// tag exactly (case-insensitive). Location is an independent substring
// filter; both are conjunctive when present.
type JobListFilter struct {
	Search   string
	Location string
	Limit    int
	Offset   int
}

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id int64) (job.Job, error)
	Update(ctx context.Context, j job.Job) (job.Job, error)
	Delete(ctx context.Context, id int64) error

	ListApproved(ctx context.Context, f JobListFilter) ([]job.Job, int64, error)
	ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error)
	SetStatus(ctx context.Context, id int64, status job.Status) (job.Job, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, j.title, j.description, j.requirements, COALESCE(j.benefits, ''),
	j.location, j.salary_min, j.salary_max, j.skills, j.type, j.experience_level,
	j.remote, j.status, j.company, j.employer_id, j.created_at, j.updated_at,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	skills, err := json.Marshal(j.Skills)
	if err != nil {
		return job.Job{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, description, requirements, benefits, location,
			salary_min, salary_max, skills, type, experience_level, remote, status,
			company, employer_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+jobReturning,
		j.Title, j.Description, j.Requirements, j.Benefits, j.Location,
		j.SalaryMin, j.SalaryMax, skills, string(j.Type), string(j.ExperienceLevel),
		j.Remote, string(j.Status), j.Company, j.EmployerID,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	skills, err := json.Marshal(j.Skills)
	if err != nil {
		return job.Job{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE jobs j
		 SET title = $2, description = $3, requirements = $4, benefits = NULLIF($5, ''),
			 location = $6, salary_min = $7, salary_max = $8, skills = $9, type = $10,
			 experience_level = $11, remote = $12, status = $13, updated_at = now()
		 WHERE j.id = $1
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Description, j.Requirements, j.Benefits, j.Location,
		j.SalaryMin, j.SalaryMax, skills, string(j.Type), string(j.ExperienceLevel),
		j.Remote, string(j.Status),
	)
	return scanJob(row)
}

// Delete removes the job and, via ON DELETE CASCADE, its applications.
func (r *PostgresJobRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListApproved(ctx context.Context, f JobListFilter) ([]job.Job, int64, error) {
	where := []string{`j.status = 'approved'`}
	args := []any{}

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%", s)
		p, e := len(args)-1, len(args)
		where = append(where, fmt.Sprintf(
			`(j.title ILIKE $%d OR j.description ILIKE $%d OR j.company ILIKE $%d
			  OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(j.skills) t WHERE lower(t) = lower($%d)))`,
			p, p, p, e))
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		args = append(args, "%"+l+"%")
		where = append(where, fmt.Sprintf(`j.location ILIKE $%d`, len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs j WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT `+jobColumns+` FROM jobs j WHERE %s ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args),
	)

	return r.queryJobs(ctx, query, args, total)
}

func (r *PostgresJobRepository) ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error) {
	jobs, _, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.status = $1 ORDER BY j.created_at DESC`,
		[]any{string(status)}, 0,
	)
	return jobs, err
}

func (r *PostgresJobRepository) SetStatus(ctx context.Context, id int64, status job.Status) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs j SET status = $2, updated_at = now() WHERE j.id = $1 RETURNING `+jobColumns,
		id, string(status),
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

func (r *PostgresJobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.db, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
}

func (r *PostgresJobRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *PostgresJobRepository) queryJobs(ctx context.Context, query string, args []any, total int64) ([]job.Job, int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// jobReturning mirrors jobColumns for INSERT ... RETURNING, where the
// row alias is not in scope and a fresh job has no applications yet.
const jobReturning = `id, title, description, requirements, COALESCE(benefits, ''),
	location, salary_min, salary_max, skills, type, experience_level,
	remote, status, company, employer_id, created_at, updated_at, 0::bigint`

func scanJob(row scannable) (job.Job, error) {
	var j job.Job
	var salaryMin, salaryMax sql.NullInt64
	var skills []byte
	var typ, level, status string

	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Requirements, &j.Benefits,
		&j.Location, &salaryMin, &salaryMax, &skills, &typ, &level,
		&j.Remote, &status, &j.Company, &j.EmployerID, &j.CreatedAt, &j.UpdatedAt,
		&j.ApplicationCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		j.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		j.SalaryMax = &v
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &j.Skills); err != nil {
			return job.Job{}, err
		}
	}
	j.Type = job.EmploymentType(typ)
	j.ExperienceLevel = job.ExperienceLevel(level)
	j.Status = job.Status(status)
	return j, nil
}
