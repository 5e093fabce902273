// Package store persists submitted batches and their processing jobs in
// a SQLite database so watch, download, and status queries survive
// restarts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
)

// ErrNotFound is returned when a batch or job does not exist.
var ErrNotFound = errors.New("not found")

// Batch is one submitted stack of interferogram jobs.
type Batch struct {
	ID              string
	Name            string
	Project         string
	AOI             string
	JobType         hyp3.JobType
	Reference       string
	MaxTemporalDays int
	CreatedAt       time.Time
}

// JobRecord tracks one interferogram pair job within a batch.
type JobRecord struct {
	JobID       string
	BatchID     string
	Reference   string
	Secondary   string
	Status      hyp3.JobStatus
	ProductPath string
	UpdatedAt   time.Time
}

// Store manages the tracking SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the tracking database at path and creates the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			project TEXT,
			aoi TEXT,
			job_type TEXT NOT NULL,
			reference TEXT NOT NULL,
			max_temporal_days INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL REFERENCES batches(id),
			reference TEXT NOT NULL,
			secondary TEXT NOT NULL,
			status TEXT NOT NULL,
			product_path TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_batch_id ON jobs(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateBatch inserts a new batch record. A missing ID or creation time
// is filled in.
func (s *Store) CreateBatch(ctx context.Context, batch *Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, name, project, aoi, job_type, reference, max_temporal_days, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.Name, batch.Project, batch.AOI, string(batch.JobType),
		batch.Reference, batch.MaxTemporalDays, batch.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch by ID.
func (s *Store) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, project, aoi, job_type, reference, max_temporal_days, created_at
		 FROM batches WHERE id = ?`, id)
	return scanBatch(row)
}

// ListBatches returns all batches, newest first.
func (s *Store) ListBatches(ctx context.Context) ([]*Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, project, aoi, job_type, reference, max_temporal_days, created_at
		 FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// InsertJobs records the jobs of a batch in one transaction.
func (s *Store) InsertJobs(ctx context.Context, batchID string, jobs []hyp3.Job) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, job := range jobs {
		reference, secondary := "", ""
		if len(job.Parameters.Granules) == 2 {
			reference, secondary = job.Parameters.Granules[0], job.Parameters.Granules[1]
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (job_id, batch_id, reference, secondary, status, product_path, updated_at)
			 VALUES (?, ?, ?, ?, ?, '', ?)`,
			job.JobID, batchID, reference, secondary, string(job.Status), now,
		)
		if err != nil {
			return fmt.Errorf("inserting job %s: %w", job.JobID, err)
		}
	}
	return tx.Commit()
}

// UpdateJobStatus records the latest status reported for a job.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID string, status hyp3.JobStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE job_id = ?`,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), jobID,
	)
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}
	return checkAffected(result)
}

// SetJobProduct records where a job's downloaded product lives on disk.
func (s *Store) SetJobProduct(ctx context.Context, jobID, path string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET product_path = ?, updated_at = ? WHERE job_id = ?`,
		path, time.Now().UTC().Format(time.RFC3339Nano), jobID,
	)
	if err != nil {
		return fmt.Errorf("updating job product path: %w", err)
	}
	return checkAffected(result)
}

// GetJob retrieves a job record by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, batch_id, reference, secondary, status, product_path, updated_at
		 FROM jobs WHERE job_id = ?`, jobID)
	return scanJob(row)
}

// JobsForBatch returns a batch's jobs ordered by reference then secondary.
func (s *Store) JobsForBatch(ctx context.Context, batchID string) ([]*JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, batch_id, reference, secondary, status, product_path, updated_at
		 FROM jobs WHERE batch_id = ? ORDER BY reference, secondary`, batchID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// StatusCounts returns the number of a batch's jobs in each status.
func (s *Store) StatusCounts(ctx context.Context, batchID string) (map[hyp3.JobStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, count(*) FROM jobs WHERE batch_id = ? GROUP BY status`, batchID)
	if err != nil {
		return nil, fmt.Errorf("counting job statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[hyp3.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[hyp3.JobStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(row scanner) (*Batch, error) {
	var batch Batch
	var jobType, createdAt string
	err := row.Scan(&batch.ID, &batch.Name, &batch.Project, &batch.AOI,
		&jobType, &batch.Reference, &batch.MaxTemporalDays, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning batch: %w", err)
	}
	batch.JobType = hyp3.JobType(jobType)
	if batch.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing batch creation time: %w", err)
	}
	return &batch, nil
}

func scanJob(row scanner) (*JobRecord, error) {
	var job JobRecord
	var status, updatedAt string
	err := row.Scan(&job.JobID, &job.BatchID, &job.Reference, &job.Secondary,
		&status, &job.ProductPath, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.Status = hyp3.JobStatus(status)
	if job.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing job update time: %w", err)
	}
	return &job, nil
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
