package linkanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/refgraph"
)

func TestUnionFind_ConnectedComponents(t *testing.T) {
	uf := newUnionFind()
	uf.union("a", "b")
	uf.union("b", "c")
	uf.add("d")

	assert.True(t, uf.connected("a", "c"))
	assert.False(t, uf.connected("a", "d"))
}

func TestAnalyzer_HardLinks_ReachableNodesLinked(t *testing.T) {
	g := &refgraph.Graph{
		Nodes: []refgraph.Node{
			{ID: "file.go", Kind: "file"},
			{ID: "file.go#A", Kind: "type", IsInDiffHunk: true, DiffHunkIndex: "0:0"},
			{ID: "file.go#B", Kind: "type", IsInDiffHunk: true, DiffHunkIndex: "0:1"},
			{ID: "file.go#C", Kind: "type", IsInDiffHunk: true, DiffHunkIndex: "0:2"},
		},
		Edges: []refgraph.Edge{
			{SourceID: "file.go#A", TargetID: "file.go#B", Kind: refgraph.EdgeKindReference},
		},
	}

	a := New(DefaultConfig())
	pairs := a.hardLinkPairs(g)

	require.Len(t, pairs, 1)
	assert.True(t, pairs[hunkPair{i: "0:0", j: "0:1"}])
}

func TestAnalyzer_Analyze_HardLinkUnionedAcrossVersions(t *testing.T) {
	// Both base and current witness the same hunk pair as reachable; the
	// union must still produce exactly one HARD link (spec §4.3 step 3-4).
	base := &refgraph.Graph{
		Nodes: []refgraph.Node{
			{ID: "A", IsInDiffHunk: true, DiffHunkIndex: "0:0"},
			{ID: "B", IsInDiffHunk: true, DiffHunkIndex: "0:1"},
		},
		Edges: []refgraph.Edge{{SourceID: "A", TargetID: "B", Kind: refgraph.EdgeKindReference}},
	}
	current := &refgraph.Graph{
		Nodes: []refgraph.Node{
			{ID: "A", IsInDiffHunk: true, DiffHunkIndex: "0:0"},
			{ID: "B", IsInDiffHunk: true, DiffHunkIndex: "0:1"},
		},
		Edges: []refgraph.Edge{{SourceID: "A", TargetID: "B", Kind: refgraph.EdgeKindReference}},
	}

	a := New(Config{SimilarityThreshold: 1.1}) // suppress soft links
	links := a.Analyze(nil, base, current)

	hardLinks := 0
	for _, l := range links {
		if l.Kind == LinkKindHard {
			hardLinks++
		}
	}
	assert.Equal(t, 1, hardLinks, "a pair witnessed by both versions must yield exactly one HARD link")
}

func TestAnalyzer_SoftLinks_SimilarEqualLengthSnippets(t *testing.T) {
	hunks := []changemodel.DiffHunk{
		{FileIndex: 0, HunkIndex: 0, CurrentHunk: changemodel.HunkRange{Lines: []string{"func foo() {", "  return 1", "}"}}},
		{FileIndex: 0, HunkIndex: 1, CurrentHunk: changemodel.HunkRange{Lines: []string{"func foo() {", "  return 2", "}"}}},
		{FileIndex: 1, HunkIndex: 0, CurrentHunk: changemodel.HunkRange{Lines: []string{"completely", "unrelated", "text block"}}},
	}

	a := New(Config{SimilarityThreshold: 0.6})
	links := a.softLinks(hunks)

	require.NotEmpty(t, links)
	assert.Equal(t, "0:0", links[0].HunkI)
	assert.Equal(t, "0:1", links[0].HunkJ)
	assert.Equal(t, LinkKindSoft, links[0].Kind)
	assert.GreaterOrEqual(t, links[0].Similarity, 0.6)
}

func TestAnalyzer_SoftLinks_UnequalLengthSkipped(t *testing.T) {
	hunks := []changemodel.DiffHunk{
		{FileIndex: 0, HunkIndex: 0, CurrentHunk: changemodel.HunkRange{Lines: []string{"one line"}}},
		{FileIndex: 0, HunkIndex: 1, CurrentHunk: changemodel.HunkRange{Lines: []string{"one line", "two lines"}}},
	}

	a := New(DefaultConfig())
	links := a.softLinks(hunks)
	assert.Empty(t, links)
}

func TestAnalyzer_Analyze_DeterministicOrder(t *testing.T) {
	hunks := []changemodel.DiffHunk{
		{FileIndex: 0, HunkIndex: 0, CurrentHunk: changemodel.HunkRange{Lines: []string{"a", "b"}}},
		{FileIndex: 0, HunkIndex: 1, CurrentHunk: changemodel.HunkRange{Lines: []string{"a", "b"}}},
	}

	a := New(Config{SimilarityThreshold: 0.1})
	links1 := a.Analyze(hunks, nil, nil)
	links2 := a.Analyze(hunks, nil, nil)

	require.Equal(t, links1, links2)
}
