package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/export"
	"github.com/viewv/smartcommitcore/internal/gitsource"
	"github.com/viewv/smartcommitcore/internal/store"
)

// Handler holds the dependencies HTTP handlers need, grounded on the
// teacher's ServiceHandler (internal/api/service_handlers.go): an engine
// to run analyses and a store to persist/retrieve them.
type Handler struct {
	eng         *engine.Engine
	db          *store.DB
	runs        *store.RunRepository
	groups      *store.GroupRepository
	diagnostics *store.DiagnosticRepository
}

// NewHandler constructs a Handler.
func NewHandler(eng *engine.Engine, db *store.DB) *Handler {
	return &Handler{
		eng:         eng,
		db:          db,
		runs:        store.NewRunRepository(),
		groups:      store.NewGroupRepository(),
		diagnostics: store.NewDiagnosticRepository(),
	}
}

// createRunRequest is the POST /runs body: the repository to analyze and
// the base revision to diff the working tree against.
type createRunRequest struct {
	RepoPath     string `json:"repoPath" binding:"required"`
	BaseRevision string `json:"baseRevision"`
}

// createRun enumerates the working tree's uncommitted changes against
// BaseRevision (defaulting to "HEAD"), records the Run, runs
// Engine.Analyze, and then saves the Run's Groups and Diagnostics and
// marks it completed in one transaction, mirroring
// the teacher's parseVault handler (internal/api/service_handlers.go) but
// synchronous: analyses are bounded by buildDeadlineSeconds, not a
// long-running background parse.
func (h *Handler) createRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseRevision == "" {
		req.BaseRevision = "HEAD"
	}

	source, err := gitsource.Open(req.RepoPath)
	if err != nil {
		handleError(c, err, "failed to open repository")
		return
	}

	workingSet, err := source.EnumerateWorkingTree(req.BaseRevision)
	if err != nil {
		if errors.Is(err, gitsource.ErrNoChanges) {
			c.JSON(http.StatusOK, gin.H{"groups": []string{}, "message": "no changes to group"})
			return
		}
		handleError(c, err, "failed to enumerate working tree")
		return
	}

	runID := uuid.NewString()
	configJSON, _ := json.Marshal(h.eng.Config())

	run := &store.Run{ID: runID, RepoPath: req.RepoPath, BaseRevision: req.BaseRevision, Config: configJSON}
	ctx := c.Request.Context()
	if h.db != nil {
		if err := h.runs.Create(ctx, h.db, run); err != nil {
			handleError(c, err, "failed to record run")
			return
		}
	}

	result, err := h.eng.Analyze(ctx, engine.Input{
		Files:        workingSet.Files,
		BaseFiles:    workingSet.BaseFiles,
		CurrentFiles: workingSet.CurrentFiles,
	})
	if err != nil {
		if h.db != nil {
			_ = h.runs.Fail(ctx, h.db, runID, err)
		}
		handleError(c, err, "analysis failed")
		return
	}

	if h.db != nil {
		err := h.db.Transaction(ctx, func(tx *sqlx.Tx) error {
			if err := h.groups.SaveAll(ctx, tx, runID, result.Groups); err != nil {
				return err
			}
			if err := h.diagnostics.SaveAll(ctx, tx, runID, result.Diagnostics); err != nil {
				return err
			}
			return h.runs.Complete(ctx, tx, runID)
		})
		if err != nil {
			handleError(c, err, "failed to save run results")
			return
		}
	}

	data, err := export.JSON(runID, req.RepoPath, filepath.Base(req.RepoPath), result)
	if err != nil {
		handleError(c, err, "failed to render run")
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// getRun returns a persisted Run's status and metadata.
func (h *Handler) getRun(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history unavailable: no database configured"})
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		handleError(c, err, "run not found")
		return
	}
	c.JSON(http.StatusOK, run)
}

// getRunGroups returns the Groups persisted for a Run.
func (h *Handler) getRunGroups(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history unavailable: no database configured"})
		return
	}
	groups, err := h.groups.ListByRun(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		handleError(c, err, "failed to list groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"runId": c.Param("id"), "groups": groups})
}

// getRunDOT is a placeholder for the DOT-format diff-hunk-graph snapshot
// (spec §6): the engine does not currently persist the DiffHunkGraph
// itself, only its Groups, so this endpoint exists for API shape parity
// and returns NotImplemented until graph persistence is added.
func (h *Handler) getRunDOT(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "diff-hunk-graph snapshots are not persisted across requests; use the CLI for a single-process DOT export"})
}

func handleError(c *gin.Context, err error, message string) {
	var notFound *store.NotFoundError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request timeout"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request canceled"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
