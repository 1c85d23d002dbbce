package store

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/viewv/smartcommitcore/internal/engine"
)

func TestDiagnosticRepository_SaveAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDiagnosticRepository()

	diagnostics := []engine.Diagnostic{
		{Kind: engine.ErrorKindParseFailure, FilePath: "a.go", Message: "could not parse"},
		{Kind: engine.ErrorKindInvalidIdentifier, FilePath: "b.go", Message: "overlapping hunks"},
	}

	mock.ExpectExec("INSERT INTO diagnostics").
		WithArgs("run-1", int(engine.ErrorKindParseFailure), "a.go", "could not parse").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO diagnostics").
		WithArgs("run-1", int(engine.ErrorKindInvalidIdentifier), "b.go", "overlapping hunks").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.SaveAll(context.Background(), db, "run-1", diagnostics)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosticRepository_SaveAll_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDiagnosticRepository()

	err := repo.SaveAll(context.Background(), db, "run-1", nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
