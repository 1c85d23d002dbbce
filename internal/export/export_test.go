package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/grouping"
	"github.com/viewv/smartcommitcore/internal/linkanalyzer"
)

func sampleGraph() grouping.DiffHunkGraph {
	return grouping.DiffHunkGraph{
		Nodes: []grouping.DiffNode{
			{UniqueIndex: "0:0", FileID: "f0", DiffHunkID: "h0", RelativePath: "a.go"},
			{UniqueIndex: "1:0", FileID: "f1", DiffHunkID: "h1", RelativePath: "b.go"},
		},
		Edges: []grouping.DiffEdge{
			{FromUniqueIndex: "0:0", ToUniqueIndex: "1:0", Kind: linkanalyzer.LinkKindSoft, Similarity: 0.9},
		},
	}
}

func sampleGroups() []grouping.Group {
	return []grouping.Group{
		{GroupID: 1, DiffHunkIDs: []string{"f0:h0", "f1:h1"}, Files: []string{"a.go", "b.go"}},
	}
}

func TestDOT_RendersClustersAndEdges(t *testing.T) {
	out := DOT(sampleGraph(), sampleGroups())
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "group 1")
	assert.Contains(t, out, "style=dashed")
}

func TestJSON_RendersGroupsAndDiagnostics(t *testing.T) {
	result := &engine.Result{
		RunID:  "run-1",
		Groups: sampleGroups(),
		Diagnostics: []engine.Diagnostic{
			{Kind: engine.ErrorKindParseFailure, FilePath: "c.go", Message: "could not parse"},
		},
	}

	data, err := JSON("run-1", "/repos/sample", "sample", result)
	require.NoError(t, err)

	var export RunExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "run-1", export.RunID)
	require.Len(t, export.Groups, 1)
	assert.Equal(t, 1, export.Groups[0].GroupID)
	assert.Equal(t, "/repos/sample", export.Groups[0].RepoID)
	assert.Equal(t, "sample", export.Groups[0].RepoName)
	assert.Equal(t, []string{"f0:h0", "f1:h1"}, export.Groups[0].DiffHunkIDs)
	require.Len(t, export.Diagnostics, 1)
	assert.Equal(t, "parseFailure", export.Diagnostics[0].Kind)
}
