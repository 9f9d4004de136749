package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/sqlbuilder"
)

// DBTX is the part of *pgxpool.Pool the repository needs. The pool is
// borrowed: the repository never closes it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// jobColumns is the projection every statement returns. NUMERIC equity is
// read as text so it survives without float conversion.
const jobColumns = `id, title, salary, equity::text, company_handle`

const uniqueViolation = "23505"

// Repository runs job statements against PostgreSQL.
type Repository struct {
	db DBTX
}

// NewRepository returns a Repository using db.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a job unless one with the same title exists.
//
// The existence check and the insert are separate statements; concurrent
// creators can both pass the check. The UNIQUE (title) constraint in the
// schema catches that case and it is reported as a duplicate too.
func (r *Repository) Create(ctx context.Context, nj NewJob) (*Job, error) {
	var existing string
	err := r.db.QueryRow(ctx,
		`SELECT title FROM jobs WHERE title = $1`,
		nj.Title,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, apperror.Duplicate(fmt.Sprintf("Duplicate job: %s", nj.Title))
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("create job duplicate check: %w", err)
	}

	j, err := scanJob(r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, salary, equity, company_handle)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+jobColumns,
		nj.Title, nj.Salary, nj.Equity, nj.CompanyHandle,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Duplicate(fmt.Sprintf("Duplicate job: %s", nj.Title))
		}
		return nil, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

// FindAll returns every job ordered by title.
func (r *Repository) FindAll(ctx context.Context) ([]Job, error) {
	return r.list(ctx, sqlbuilder.Clause{})
}

// Filter returns the jobs matching filter, ordered by title. A filter with no
// recognized keys matches everything.
func (r *Repository) Filter(ctx context.Context, filter sqlbuilder.Fields) ([]Job, error) {
	return r.list(ctx, sqlbuilder.WhereClause(filter))
}

func (r *Repository) list(ctx context.Context, where sqlbuilder.Clause) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	if !where.Empty() {
		query += ` WHERE ` + where.Text
	}
	query += ` ORDER BY title`

	rows, err := r.db.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs scan: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Get returns the job with the given title.
func (r *Repository) Get(ctx context.Context, title string) (*Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE title = $1`,
		title,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound(fmt.Sprintf("No job: %s", title))
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Update applies a partial update to the job with the given title. Only the
// fields present in data change.
func (r *Repository) Update(ctx context.Context, title string, data sqlbuilder.Fields) (*Job, error) {
	set, err := sqlbuilder.SetClause(data, Columns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE jobs SET %s WHERE title = $%d RETURNING %s`,
		set.Text, set.Next(), jobColumns,
	)
	args := append(set.Args, title)

	j, err := scanJob(r.db.QueryRow(ctx, query, args...))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperror.NotFound(fmt.Sprintf("No job: %s", title))
	case isUniqueViolation(err):
		return nil, apperror.Duplicate(fmt.Sprintf("Duplicate job: %v", collidingTitle(data, title)))
	case err != nil:
		return nil, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

// Remove deletes the job with the given title.
func (r *Repository) Remove(ctx context.Context, title string) error {
	var deleted string
	err := r.db.QueryRow(ctx,
		`DELETE FROM jobs WHERE title = $1 RETURNING title`,
		title,
	).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(fmt.Sprintf("No job: %s", title))
	}
	if err != nil {
		return fmt.Errorf("remove job: %w", err)
	}
	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// collidingTitle names the title an update collided on: the new one if the payload
// renames the job, else the current one.
func collidingTitle(data sqlbuilder.Fields, current string) any {
	if v, ok := data.Get("title"); ok {
		return v
	}
	return current
}
