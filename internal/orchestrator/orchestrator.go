// Package orchestrator runs the Reference-Graph Builder twice — once for
// the base version, once for the current version of a change — concurrently
// under a single shared deadline. Two-Version Orchestrator, spec §4.2/§5.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viewv/smartcommitcore/internal/refgraph"
)

// ErrBuildTimeout is returned when the shared deadline elapses before both
// builder runs complete. It maps to the BuildTimeout kind in the engine's
// error taxonomy (spec §7).
var ErrBuildTimeout = errors.New("orchestrator: reference-graph build did not complete within the shared deadline")

// BuilderFunc runs a refgraph.Builder over one version's files. It is
// exported as a func type rather than requiring *refgraph.Builder directly
// so tests can substitute a builder that simulates slow or failing builds.
type BuilderFunc func(ctx context.Context, files []refgraph.SourceFile) (*refgraph.Graph, error)

// Result is the outcome of building both versions.
type Result struct {
	Base    *refgraph.Graph
	Current *refgraph.Graph
	// Duration is the wall-clock time both builds together took.
	Duration time.Duration
}

// Orchestrator runs exactly two builder invocations concurrently, one per
// version, under one shared context deadline (spec §9's explicit mandate:
// a single shared deadline, not a per-future one).
type Orchestrator struct {
	build   BuilderFunc
	timeout time.Duration
}

// New constructs an Orchestrator. build is typically (*refgraph.Builder).Build
// adapted to the BuilderFunc signature; timeout is the engine's
// buildDeadlineSeconds tuning parameter (spec §6).
func New(build BuilderFunc, timeout time.Duration) *Orchestrator {
	return &Orchestrator{build: build, timeout: timeout}
}

// BuildBoth runs the base and current builds concurrently, returning as
// soon as both complete or the shared deadline elapses, whichever is
// first. Mirrors the teacher's worker-pool-under-WaitGroup shape
// (internal/vault/parser.go's processFilesConcurrently) adapted to exactly
// two fixed tasks via golang.org/x/sync/errgroup instead of a channel pool,
// since there is no variable-size work queue here.
func (o *Orchestrator) BuildBoth(ctx context.Context, baseFiles, currentFiles []refgraph.SourceFile) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var baseGraph, currentGraph *refgraph.Graph

	g.Go(func() error {
		built, err := o.build(gctx, baseFiles)
		if err != nil {
			return fmt.Errorf("orchestrator: base build failed: %w", err)
		}
		baseGraph = built
		return nil
	})

	g.Go(func() error {
		built, err := o.build(gctx, currentFiles)
		if err != nil {
			return fmt.Errorf("orchestrator: current build failed: %w", err)
		}
		currentGraph = built
		return nil
	})

	// Wait in the background so the deadline ends BuildBoth even when a
	// builder ignores ctx; an abandoned builder's result is discarded.
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("orchestrator: shared deadline of %v exceeded after %v", o.timeout, duration)
			return nil, ErrBuildTimeout
		}
		return nil, err
	}

	log.Printf("orchestrator: both versions built in %v", duration)
	return &Result{Base: baseGraph, Current: currentGraph, Duration: duration}, nil
}
