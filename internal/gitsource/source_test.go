package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(0, 0)}
	_, err = wt.Commit("initial commit", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestChangeSource_EnumerateWorkingTree_DetectsModification(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")

	src, err := Open(dir)
	require.NoError(t, err)

	ws, err := src.EnumerateWorkingTree("HEAD")
	require.NoError(t, err)

	require.Len(t, ws.Files, 1)
	assert.Equal(t, "main.go", ws.Files[0].RelativePath)
	assert.NotEmpty(t, ws.Files[0].Hunks)
	assert.Len(t, ws.BaseFiles, 1)
	assert.Len(t, ws.CurrentFiles, 1)
}

func TestChangeSource_EnumerateWorkingTree_DetectsAddedFile(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "extra.go", "package main\n\nfunc helper() {}\n")

	src, err := Open(dir)
	require.NoError(t, err)

	ws, err := src.EnumerateWorkingTree("HEAD")
	require.NoError(t, err)

	require.Len(t, ws.Files, 1)
	assert.Equal(t, "extra.go", ws.Files[0].RelativePath)
	assert.Empty(t, ws.Files[0].BaseContent)
	assert.Len(t, ws.BaseFiles, 0)
	assert.Len(t, ws.CurrentFiles, 1)
}

func TestChangeSource_EnumerateWorkingTree_NoChangesIsError(t *testing.T) {
	dir := initTestRepo(t)

	src, err := Open(dir)
	require.NoError(t, err)

	_, err = src.EnumerateWorkingTree("HEAD")
	require.ErrorIs(t, err, ErrNoChanges)
}

func TestOpen_NotARepoIsError(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrRepoNotFound)
}
