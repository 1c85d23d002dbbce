// Package gitsource is the concrete Repository I/O collaborator: it
// enumerates a Git repository's uncommitted changes and materializes the
// two source snapshots (base and current) the Two-Version Orchestrator
// builds reference graphs from.
package gitsource

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/refgraph"
)

// ChangeSource enumerates changes in a Git repository's working tree
// against a base revision, grounded on the teacher's git.Manager
// (internal/git/manager.go) but read-only: it never clones, pulls, or
// writes, since the engine analyzes a repository the caller already has
// checked out.
type ChangeSource struct {
	repo     *git.Repository
	repoPath string
}

// Open opens an existing Git repository at repoPath.
func Open(repoPath string) (*ChangeSource, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepoNotFound, err)
	}
	return &ChangeSource{repo: repo, repoPath: repoPath}, nil
}

// WorkingSet is the materialized result of enumerating one change: the
// change-model DiffFiles (spec §3) plus the base/current SourceFiles the
// Reference-Graph Builder consumes for each version.
type WorkingSet struct {
	Files        []changemodel.DiffFile
	BaseFiles    []refgraph.SourceFile
	CurrentFiles []refgraph.SourceFile
}

// EnumerateWorkingTree diffs the repository's current working tree against
// baseRevision (typically "HEAD"), the common case for the target
// developer persona in spec §1: uncommitted local changes not yet
// committed.
func (c *ChangeSource) EnumerateWorkingTree(baseRevision string) (WorkingSet, error) {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return WorkingSet{}, fmt.Errorf("gitsource: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return WorkingSet{}, fmt.Errorf("gitsource: reading worktree status: %w", err)
	}

	rev, err := c.repo.ResolveRevision(plumbing.Revision(baseRevision))
	if err != nil {
		return WorkingSet{}, fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, baseRevision, err)
	}
	commit, err := c.repo.CommitObject(*rev)
	if err != nil {
		return WorkingSet{}, fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, baseRevision, err)
	}
	baseTree, err := commit.Tree()
	if err != nil {
		return WorkingSet{}, fmt.Errorf("gitsource: reading base tree: %w", err)
	}

	var ws WorkingSet
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified {
			continue
		}

		oldContent := blobContent(baseTree, path)

		var newContent string
		if fileStatus.Worktree != git.Deleted {
			data, err := os.ReadFile(filepath.Join(c.repoPath, path)) // #nosec G304 -- path enumerated from the repo's own worktree status
			if err != nil {
				log.Printf("gitsource: failed to read working-tree file %s: %v", path, err)
				continue
			}
			newContent = string(data)
		}

		hunks := hunksBetween(path, oldContent, newContent)
		if len(hunks) == 0 {
			continue
		}

		fileID := uuid.NewString()
		for i := range hunks {
			hunks[i].DiffHunkID = uuid.NewString()
			hunks[i].FileID = fileID
		}

		ws.Files = append(ws.Files, changemodel.DiffFile{
			FileID:         fileID,
			RelativePath:   path,
			BaseContent:    oldContent,
			CurrentContent: newContent,
			Hunks:          hunks,
		})

		if oldContent != "" {
			ws.BaseFiles = append(ws.BaseFiles, refgraph.SourceFile{RelativePath: path, Content: oldContent, DiffHunks: hunks})
		}
		if newContent != "" {
			ws.CurrentFiles = append(ws.CurrentFiles, refgraph.SourceFile{RelativePath: path, Content: newContent, DiffHunks: hunks})
		}
	}

	if len(ws.Files) == 0 {
		return WorkingSet{}, ErrNoChanges
	}

	ws.Files = changemodel.SortFiles(ws.Files)
	return ws, nil
}

// blobContent returns a file's text content at the given tree, or "" if
// the tree has no such file (the file was added in the working tree).
func blobContent(tree *object.Tree, path string) string {
	f, err := tree.File(path)
	if err != nil {
		return ""
	}
	content, err := f.Contents()
	if err != nil {
		log.Printf("gitsource: failed to read blob content for %s: %v", path, err)
		return ""
	}
	return content
}
