// Package grouping builds the diff-hunk graph from derived links and
// partitions it into commit groups via connected components. Grouping
// Engine, spec §4.4.
package grouping

import (
	"sort"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/linkanalyzer"
)

// DiffNode is one diff hunk as a node in the diff-hunk graph.
type DiffNode struct {
	UniqueIndex  string `json:"uniqueIndex"`
	FileID       string `json:"fileId"`
	DiffHunkID   string `json:"diffHunkId"`
	RelativePath string `json:"relativePath"`
}

// CompositeKey returns the node's "<fileID>:<diffHunkID>" opaque external
// reference (spec §3's DiffHunk composite key).
func (n DiffNode) CompositeKey() string {
	return changemodel.CompositeKey(n.FileID, n.DiffHunkID)
}

// DiffEdge is one derived link between two diff hunks, carried through from
// internal/linkanalyzer into the diff-hunk graph.
type DiffEdge struct {
	FromUniqueIndex string                 `json:"fromUniqueIndex"`
	ToUniqueIndex   string                 `json:"toUniqueIndex"`
	Kind            linkanalyzer.LinkKind  `json:"kind"`
	Similarity      float64                `json:"similarity,omitempty"`
}

// DiffHunkGraph is the graph of source-file diff hunks connected by hard
// and soft links, the direct input to connected-components grouping.
type DiffHunkGraph struct {
	Nodes []DiffNode `json:"nodes"`
	Edges []DiffEdge `json:"edges"`
}

// BuildDiffHunkGraph projects a working set's source-file hunks and the
// Analyzer's derived links into a DiffHunkGraph. Non-source hunks (spec
// §4.3/§4.4's bypass) are excluded; they are routed directly to group0 by
// BuildGroups, never entering this graph.
func BuildDiffHunkGraph(files []changemodel.DiffFile, links []linkanalyzer.Link) DiffHunkGraph {
	g := DiffHunkGraph{}

	for _, f := range files {
		if f.FileType != changemodel.FileTypeSource {
			continue
		}
		for _, h := range f.Hunks {
			g.Nodes = append(g.Nodes, DiffNode{
				UniqueIndex:  h.UniqueIndex(),
				FileID:       f.FileID,
				DiffHunkID:   h.DiffHunkID,
				RelativePath: f.RelativePath,
			})
		}
	}

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.UniqueIndex] = true
	}

	// seenEdges enforces the §3 DiffEdge invariant ("at most one edge per
	// unordered pair per kind") even if a future Analyzer change ever
	// re-introduces a duplicate candidate; linkanalyzer.Analyzer.Analyze
	// already unions hard-link candidates across versions before this
	// point, so this is a backstop, not the primary dedup.
	seenEdges := make(map[DiffEdge]bool, len(links))
	for _, l := range links {
		if !known[l.HunkI] || !known[l.HunkJ] {
			continue
		}
		e := DiffEdge{FromUniqueIndex: l.HunkI, ToUniqueIndex: l.HunkJ, Kind: l.Kind, Similarity: l.Similarity}
		key := DiffEdge{FromUniqueIndex: l.HunkI, ToUniqueIndex: l.HunkJ, Kind: l.Kind}
		if seenEdges[key] {
			continue
		}
		seenEdges[key] = true
		g.Edges = append(g.Edges, e)
	}

	sort.Slice(g.Nodes, func(i, j int) bool {
		return changemodel.LessUniqueIndex(g.Nodes[i].UniqueIndex, g.Nodes[j].UniqueIndex)
	})
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].FromUniqueIndex != g.Edges[j].FromUniqueIndex {
			return changemodel.LessUniqueIndex(g.Edges[i].FromUniqueIndex, g.Edges[j].FromUniqueIndex)
		}
		return changemodel.LessUniqueIndex(g.Edges[i].ToUniqueIndex, g.Edges[j].ToUniqueIndex)
	})
	return g
}
