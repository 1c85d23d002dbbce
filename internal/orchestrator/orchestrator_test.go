package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewv/smartcommitcore/internal/refgraph"
)

func TestOrchestrator_BuildBoth_Success(t *testing.T) {
	build := func(_ context.Context, files []refgraph.SourceFile) (*refgraph.Graph, error) {
		return &refgraph.Graph{Nodes: make([]refgraph.Node, len(files))}, nil
	}

	o := New(build, time.Second)
	result, err := o.BuildBoth(context.Background(),
		[]refgraph.SourceFile{{RelativePath: "a.go"}},
		[]refgraph.SourceFile{{RelativePath: "a.go"}, {RelativePath: "b.go"}},
	)

	require.NoError(t, err)
	require.NotNil(t, result.Base)
	require.NotNil(t, result.Current)
	assert.Len(t, result.Base.Nodes, 1)
	assert.Len(t, result.Current.Nodes, 2)
}

func TestOrchestrator_BuildBoth_DeadlineExceeded(t *testing.T) {
	build := func(ctx context.Context, _ []refgraph.SourceFile) (*refgraph.Graph, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return &refgraph.Graph{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	o := New(build, 10*time.Millisecond)
	_, err := o.BuildBoth(context.Background(), nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildTimeout)
}

func TestOrchestrator_BuildBoth_BuilderFailure(t *testing.T) {
	boom := errors.New("boom")
	build := func(_ context.Context, _ []refgraph.SourceFile) (*refgraph.Graph, error) {
		return nil, boom
	}

	o := New(build, time.Second)
	_, err := o.BuildBoth(context.Background(), nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
