package store

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/viewv/smartcommitcore/internal/grouping"
)

func TestGroupRepository_SaveAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository()

	groups := []grouping.Group{
		{GroupID: 0, DiffHunkIDs: []string{"f1:h1"}, Files: []string{"README.md"}},
		{GroupID: 1, DiffHunkIDs: []string{"f2:h1", "f2:h2"}, Files: []string{"a.go"}},
	}

	mock.ExpectExec("INSERT INTO groups").
		WithArgs("run-1", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO groups").
		WithArgs("run-1", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAll(context.Background(), db, "run-1", groups)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_ListByRun(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository()
	wrapped := &DB{DB: db}

	rows := sqlmock.NewRows([]string{"run_id", "group_id", "diff_hunk_ids", "files", "intent_label"}).
		AddRow("run-1", 0, "{f1:h1}", "{README.md}", "")

	mock.ExpectQuery("SELECT (.+) FROM groups WHERE run_id").
		WithArgs("run-1").
		WillReturnRows(rows)

	groups, err := repo.ListByRun(context.Background(), wrapped, "run-1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
