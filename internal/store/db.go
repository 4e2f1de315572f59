// Package store keeps the generation job history in SQLite or Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-bi-stack/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "github.com/mattn/go-sqlite3"
)

// Job statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const defaultPath = "./bistack.db"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

type dialect struct {
	driver    string
	timestamp string
	serial    string
}

var (
	sqliteDialect   = dialect{driver: "sqlite3", timestamp: "DATETIME", serial: "INTEGER PRIMARY KEY AUTOINCREMENT"}
	postgresDialect = dialect{driver: "pgx", timestamp: "TIMESTAMPTZ", serial: "BIGSERIAL PRIMARY KEY"}
)

// dialectFor picks Postgres for postgres:// URLs and SQLite for anything
// else, which is taken as a file path.
func dialectFor(dsn string) dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

// DB is the generation job history.
type DB struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to dsn and creates the tables if needed. An empty dsn opens
// ./bistack.db.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		dsn = defaultPath
	}
	d := dialectFor(dsn)

	openMu.Lock()
	db, err := sqlOpen(d.driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d == sqliteDialect {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}

	s := &DB{db: db, dialect: d, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *DB) Close() error { return s.db.Close() }

// Driver returns the database/sql driver name in use.
func (s *DB) Driver() string { return s.dialect.driver }

func (s *DB) migrate(ctx context.Context) error {
	// Create tables if not exists
	jobTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS generation_jobs (
		id TEXT PRIMARY KEY,
		system TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		min_records INTEGER NOT NULL,
		max_records INTEGER NOT NULL,
		format TEXT NOT NULL,
		seed TEXT NOT NULL,
		status TEXT NOT NULL,
		filename TEXT NOT NULL DEFAULT '',
		records_generated INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at %[1]s NOT NULL,
		updated_at %[1]s NOT NULL
	);`, s.dialect.timestamp)
	errorTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS job_errors (
		id %s,
		job_id TEXT NOT NULL,
		error_message TEXT NOT NULL,
		created_at %s NOT NULL
	);`, s.dialect.serial, s.dialect.timestamp)

	for _, stmt := range []string{jobTable, errorTable} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *DB) rebind(query string) string {
	if s.dialect != postgresDialect {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveJob stores a new generation job as pending.
func (s *DB) SaveJob(ctx context.Context, job model.GenerationJob) error {
	now := s.now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.Status == "" {
		job.Status = StatusPending
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO generation_jobs
		(id, system, kind, start_date, end_date, min_records, max_records, format, seed, status, filename, records_generated, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		job.ID, job.System, job.Kind, job.StartDate, job.EndDate, job.MinRecords, job.MaxRecords,
		job.Format, strconv.FormatUint(job.Seed, 10), job.Status, job.Filename, job.RecordsGenerated,
		job.Error, job.CreatedAt.UTC(), now)
	return err
}

// CompleteJob marks a job completed with its output file.
func (s *DB) CompleteJob(ctx context.Context, jobID, filename string, records int, seed uint64) error {
	return s.update(ctx, `UPDATE generation_jobs SET status = ?, filename = ?, records_generated = ?, seed = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted, filename, records, strconv.FormatUint(seed, 10), s.now().UTC(), jobID)
}

// UpdateJobStatus updates job status
func (s *DB) UpdateJobStatus(ctx context.Context, jobID, status string) error {
	return s.update(ctx, `UPDATE generation_jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, s.now().UTC(), jobID)
}

// SaveJobError records an error for a job and marks it failed.
func (s *DB) SaveJobError(ctx context.Context, jobID string, jobErr error) error {
	if jobErr == nil {
		return nil
	}
	now := s.now().UTC()
	if _, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`),
		jobID, jobErr.Error(), now); err != nil {
		return err
	}
	return s.update(ctx, `UPDATE generation_jobs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, jobErr.Error(), now, jobID)
}

func (s *DB) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: job %s", model.ErrNotFound, args[len(args)-1])
	}
	return nil
}

const jobColumns = `id, system, kind, start_date, end_date, min_records, max_records, format, seed, status, filename, records_generated, error_message, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (model.GenerationJob, error) {
	var job model.GenerationJob
	var seed string
	if err := row.Scan(&job.ID, &job.System, &job.Kind, &job.StartDate, &job.EndDate,
		&job.MinRecords, &job.MaxRecords, &job.Format, &seed, &job.Status, &job.Filename,
		&job.RecordsGenerated, &job.Error, &job.CreatedAt); err != nil {
		return job, err
	}
	job.Seed, _ = strconv.ParseUint(seed, 10, 64)
	job.CreatedAt = job.CreatedAt.UTC()
	return job, nil
}

// ListJobs returns the most recent jobs first. limit <= 0 returns all.
func (s *DB) ListJobs(ctx context.Context, limit int) ([]model.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.GenerationJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetJob fetches one job. Unknown ids yield model.ErrNotFound.
func (s *DB) GetJob(ctx context.Context, jobID string) (model.GenerationJob, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+jobColumns+` FROM generation_jobs WHERE id = ?`), jobID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return job, fmt.Errorf("%w: job %s", model.ErrNotFound, jobID)
	}
	return job, err
}

// JobErrors returns the error messages recorded for a job, oldest first.
func (s *DB) JobErrors(ctx context.Context, jobID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT error_message FROM job_errors WHERE job_id = ? ORDER BY id`), jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
