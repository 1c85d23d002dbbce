// Package engine wires the Change Model, Reference-Graph Builder,
// Two-Version Orchestrator, Hunk-Link Analyzer, and Grouping Engine into
// the single Analyze entrypoint (spec §6), owning the run-scoped logging,
// panic recovery, and error taxonomy (spec §7) the other stages leave to
// their caller.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/grouping"
	"github.com/viewv/smartcommitcore/internal/linkanalyzer"
	"github.com/viewv/smartcommitcore/internal/orchestrator"
	"github.com/viewv/smartcommitcore/internal/refgraph"
)

// Input is one change to analyze: the working set of DiffFiles plus the
// base/current source snapshots needed to build reference graphs.
type Input struct {
	Files       []changemodel.DiffFile
	BaseFiles   []refgraph.SourceFile
	CurrentFiles []refgraph.SourceFile
}

// Diagnostic is one non-fatal issue surfaced alongside a successful
// Analyze result (spec §7: diagnostics travel with output rather than
// aborting the run).
type Diagnostic struct {
	Kind     ErrorKind `json:"kind"`
	FilePath string    `json:"filePath,omitempty"`
	Message  string    `json:"message"`
}

// Result is the full output of one Analyze invocation.
type Result struct {
	RunID         string                   `json:"runId"`
	Groups        []grouping.Group         `json:"groups"`
	DiffHunkGraph grouping.DiffHunkGraph   `json:"diffHunkGraph"`
	Links         []linkanalyzer.Link      `json:"links"`
	BaseGraph     *refgraph.Graph          `json:"baseGraph"`
	CurrentGraph  *refgraph.Graph          `json:"currentGraph"`
	Diagnostics   []Diagnostic             `json:"diagnostics,omitempty"`
	Duration      time.Duration            `json:"durationNs"`
}

// Engine is the top-level entrypoint, analogous to the teacher's
// VaultService (internal/service/vault_service.go): it owns configuration,
// logging, and orchestration of the lower stages, but holds no reference-
// graph or grouping logic itself.
type Engine struct {
	cfg         Config
	classifier  *changemodel.FileTypeClassifier
	builder     *refgraph.Builder
	orchestrate *orchestrator.Orchestrator
	analyzer    *linkanalyzer.Analyzer
	log         *slog.Logger
}

// New constructs an Engine. parsers are the refgraph.Parser implementations
// dispatched by the Reference-Graph Builder; pass refgraph.NewGoParser()
// for Go sources, plus any others the deployment registers.
func New(cfg Config, logger *slog.Logger, parsers ...refgraph.Parser) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DistanceThreshold != 0 && !cfg.DetectRefactorings {
		return nil, fmt.Errorf("%w: distance_threshold set without detect_refactorings", ErrReservedFeature)
	}

	classifier, err := changemodel.NewFileTypeClassifier(cfg.Classification)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	builder := refgraph.NewBuilder(parsers...)
	buildFn := func(ctx context.Context, files []refgraph.SourceFile) (*refgraph.Graph, error) {
		// A version with no files (e.g. every change adds a new file, so
		// the base snapshot is empty) yields an empty graph.
		if len(files) == 0 {
			return &refgraph.Graph{}, nil
		}
		return builder.Build(files)
	}

	return &Engine{
		cfg:         cfg,
		classifier:  classifier,
		builder:     builder,
		orchestrate: orchestrator.New(buildFn, cfg.buildDeadline()),
		analyzer:    linkanalyzer.New(cfg.linkAnalyzerConfig()),
		log:         logger,
	}, nil
}

// Config returns the engine's tuning configuration, for callers that need
// to record it alongside a run (e.g. internal/store.Run.Config).
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze runs the full pipeline: classify files, build both version
// graphs concurrently under a shared deadline, derive hard/soft links,
// and partition the diff-hunk graph into groups.
func (e *Engine) Analyze(ctx context.Context, input Input) (result *Result, err error) {
	runID := uuid.NewString()
	logger := e.log.With("run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: panic during analyze: %v", r)
			logger.Error("analyze panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	start := time.Now()
	logger.Info("analyze starting", "files", len(input.Files))

	if len(input.Files) == 0 || len(changemodel.AllHunks(input.Files)) == 0 {
		return nil, fmt.Errorf("engine: %w", changemodel.ErrInputEmpty)
	}

	files := changemodel.SortFiles(input.Files)
	e.classifier.ClassifyFiles(files)

	var diagnostics []Diagnostic
	for _, f := range files {
		if verr := f.Validate(); verr != nil {
			diagnostics = append(diagnostics, Diagnostic{Kind: ErrorKindInvalidIdentifier, FilePath: f.RelativePath, Message: verr.Error()})
		}
		for _, h := range f.Hunks {
			if verr := h.Validate(); verr != nil {
				diagnostics = append(diagnostics, Diagnostic{Kind: ErrorKindInvalidIdentifier, FilePath: f.RelativePath, Message: verr.Error()})
			}
		}
	}

	buildResult, err := e.orchestrate.BuildBoth(ctx, input.BaseFiles, input.CurrentFiles)
	if err != nil {
		logger.Error("build failed", "error", err)
		return nil, err
	}

	for _, pf := range buildResult.Base.ParseFailures {
		diagnostics = append(diagnostics, Diagnostic{Kind: ErrorKindParseFailure, FilePath: pf.FilePath, Message: "base: " + pf.Reason})
	}
	for _, pf := range buildResult.Current.ParseFailures {
		diagnostics = append(diagnostics, Diagnostic{Kind: ErrorKindParseFailure, FilePath: pf.FilePath, Message: "current: " + pf.Reason})
	}

	// Non-source hunks bypass the Hunk-Link Analyzer entirely (spec
	// §4.3): they never enter the reference graphs, so they must not
	// enter the soft-link pass either.
	hunks := changemodel.AllHunks(onlySource(files))
	links := e.analyzer.Analyze(hunks, buildResult.Base, buildResult.Current)

	groupingInput := files
	if !e.cfg.ProcessNonSourceChanges {
		groupingInput = onlySource(files)
	}

	diffGraph := grouping.BuildDiffHunkGraph(groupingInput, links)
	groups := grouping.BuildGroups(groupingInput, diffGraph)

	duration := time.Since(start)
	logger.Info("analyze complete", "groups", len(groups), "duration", duration)

	return &Result{
		RunID:         runID,
		Groups:        groups,
		DiffHunkGraph: diffGraph,
		Links:         links,
		BaseGraph:     buildResult.Base,
		CurrentGraph:  buildResult.Current,
		Diagnostics:   diagnostics,
		Duration:      duration,
	}, nil
}

func onlySource(files []changemodel.DiffFile) []changemodel.DiffFile {
	out := make([]changemodel.DiffFile, 0, len(files))
	for _, f := range files {
		if f.FileType == changemodel.FileTypeSource {
			out = append(out, f)
		}
	}
	return out
}
