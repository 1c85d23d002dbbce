package gitsource

import "errors"

var (
	// ErrRepoNotFound is returned when the configured path is not a Git
	// repository go-git can open.
	ErrRepoNotFound = errors.New("gitsource: repository not found")
	// ErrRevisionNotFound is returned when a base revision cannot be
	// resolved to a commit.
	ErrRevisionNotFound = errors.New("gitsource: revision not found")
	// ErrNoChanges is returned when the working tree carries no
	// differences against the resolved base revision.
	ErrNoChanges = errors.New("gitsource: no changes between base revision and working tree")
)
