package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RunStatus is a Run's lifecycle state.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one Engine.Analyze invocation: when it ran, against which
// repository/revision, with what tuning config, and how it ended.
// Supplements spec §7's diagnostics with durable run history
// (SPEC_FULL.md §4), mirroring the teacher's models.ParseHistory.
type Run struct {
	ID           string          `db:"id"`
	RepoPath     string          `db:"repo_path"`
	BaseRevision string          `db:"base_revision"`
	Status       RunStatus       `db:"status"`
	Config       json.RawMessage `db:"config"`
	StartedAt    time.Time       `db:"started_at"`
	FinishedAt   sql.NullTime    `db:"finished_at"`
	Error        sql.NullString  `db:"error"`
}

// RunRepository persists Runs. Stateless: every method receives its
// executor, following the teacher's repository.Executor pattern
// (internal/repository/executor.go) so callers can run it inside or
// outside a transaction.
type RunRepository struct{}

// NewRunRepository constructs a RunRepository.
func NewRunRepository() *RunRepository { return &RunRepository{} }

// Executor is the subset of *sqlx.DB/*sqlx.Tx this repository needs.
type Executor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var _ Executor = (*sqlx.DB)(nil)
var _ Executor = (*sqlx.Tx)(nil)

// Create inserts a new Run in the "running" state.
func (r *RunRepository) Create(ctx context.Context, exec Executor, run *Run) error {
	run.Status = RunStatusRunning
	run.StartedAt = time.Now()

	query := `
		INSERT INTO runs (id, repo_path, base_revision, status, config, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := exec.ExecContext(ctx, query, run.ID, run.RepoPath, run.BaseRevision, run.Status, run.Config, run.StartedAt)
	if err != nil {
		return fmt.Errorf("store: failed to create run: %w", err)
	}
	return nil
}

// Complete marks a Run completed at the current time.
func (r *RunRepository) Complete(ctx context.Context, exec Executor, runID string) error {
	_, err := exec.ExecContext(ctx, `UPDATE runs SET status = $2, finished_at = $3 WHERE id = $1`,
		runID, RunStatusCompleted, time.Now())
	if err != nil {
		return fmt.Errorf("store: failed to complete run: %w", err)
	}
	return nil
}

// Fail marks a Run failed with the given error message.
func (r *RunRepository) Fail(ctx context.Context, exec Executor, runID string, cause error) error {
	_, err := exec.ExecContext(ctx, `UPDATE runs SET status = $2, finished_at = $3, error = $4 WHERE id = $1`,
		runID, RunStatusFailed, time.Now(), cause.Error())
	if err != nil {
		return fmt.Errorf("store: failed to mark run failed: %w", err)
	}
	return nil
}

// GetByID retrieves a Run by id.
func (r *RunRepository) GetByID(ctx context.Context, exec Executor, id string) (*Run, error) {
	var run Run
	query := `SELECT id, repo_path, base_revision, status, config, started_at, finished_at, error FROM runs WHERE id = $1`
	if err := exec.GetContext(ctx, &run, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, &NotFoundError{Resource: "run", ID: id}
		}
		return nil, fmt.Errorf("store: failed to get run: %w", err)
	}
	return &run, nil
}
