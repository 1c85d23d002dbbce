package store

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func TestRunRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRunRepository()

	run := &Run{ID: "run-1", RepoPath: "/repo", BaseRevision: "HEAD", Config: []byte(`{}`)}

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(run.ID, run.RepoPath, run.BaseRevision, RunStatusRunning, run.Config, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), db, run)
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_Complete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRunRepository()

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("run-1", RunStatusCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), db, "run-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRunRepository()

	mock.ExpectQuery("SELECT (.+) FROM runs WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), db, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, &NotFoundError{})
}
