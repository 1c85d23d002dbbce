package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/grouping"
)

// GroupRow is one persisted grouping.Group, scoped to a Run.
type GroupRow struct {
	RunID       string         `db:"run_id"`
	GroupID     int            `db:"group_id"`
	DiffHunkIDs pq.StringArray `db:"diff_hunk_ids"`
	Files       pq.StringArray `db:"files"`
	IntentLabel string         `db:"intent_label"`
}

// GroupRepository persists grouping.Groups for a Run.
type GroupRepository struct{}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository() *GroupRepository { return &GroupRepository{} }

// SaveAll inserts every Group for a Run in one statement per group. The
// HTTP handler calls it inside the same transaction as
// RunRepository.Complete, so a Run is never marked completed without its
// Groups.
func (r *GroupRepository) SaveAll(ctx context.Context, exec Executor, runID string, groups []grouping.Group) error {
	for _, g := range groups {
		query := `
			INSERT INTO groups (run_id, group_id, diff_hunk_ids, files, intent_label)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := exec.ExecContext(ctx, query, runID, g.GroupID, pq.StringArray(g.DiffHunkIDs), pq.StringArray(g.Files), g.IntentLabel)
		if err != nil {
			return fmt.Errorf("store: failed to save group %d: %w", g.GroupID, err)
		}
	}
	return nil
}

// ListByRun returns every Group persisted for a Run, ordered by group_id.
func (r *GroupRepository) ListByRun(ctx context.Context, db *DB, runID string) ([]grouping.Group, error) {
	var rows []GroupRow
	query := `SELECT run_id, group_id, diff_hunk_ids, files, COALESCE(intent_label, '') AS intent_label FROM groups WHERE run_id = $1 ORDER BY group_id`
	if err := db.SelectContext(ctx, &rows, query, runID); err != nil {
		return nil, fmt.Errorf("store: failed to list groups for run %s: %w", runID, err)
	}

	groups := make([]grouping.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, grouping.Group{
			GroupID:     row.GroupID,
			DiffHunkIDs: []string(row.DiffHunkIDs),
			Files:       []string(row.Files),
			IntentLabel: row.IntentLabel,
		})
	}
	return groups, nil
}

// DiagnosticRow is one persisted engine.Diagnostic, scoped to a Run.
type DiagnosticRow struct {
	RunID    string `db:"run_id"`
	Kind     int    `db:"kind"`
	FilePath string `db:"file_path"`
	Message  string `db:"message"`
}

// DiagnosticRepository persists engine.Diagnostics for a Run.
type DiagnosticRepository struct{}

// NewDiagnosticRepository constructs a DiagnosticRepository.
func NewDiagnosticRepository() *DiagnosticRepository { return &DiagnosticRepository{} }

// SaveAll inserts every Diagnostic for a Run.
func (r *DiagnosticRepository) SaveAll(ctx context.Context, exec Executor, runID string, diagnostics []engine.Diagnostic) error {
	for _, d := range diagnostics {
		query := `INSERT INTO diagnostics (run_id, kind, file_path, message) VALUES ($1, $2, $3, $4)`
		_, err := exec.ExecContext(ctx, query, runID, int(d.Kind), d.FilePath, d.Message)
		if err != nil {
			return fmt.Errorf("store: failed to save diagnostic: %w", err)
		}
	}
	return nil
}
