// Package export serializes an Engine run's result into the formats spec §6
// calls "serialized output": a JSON group listing and a Graphviz DOT
// snapshot of the diff-hunk graph, colored by group.
package export

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/viewv/smartcommitcore/internal/grouping"
)

// groupColors cycles through a small palette so adjacent group numbers stay
// visually distinct; it wraps for runs with more groups than colors.
var groupColors = []string{
	"lightblue", "lightgreen", "lightsalmon", "lightgoldenrod",
	"lightpink", "lightcyan", "plum", "khaki",
}

// DOT renders a DiffHunkGraph as a Graphviz graph, one subgraph cluster per
// Group so a rendered image visually separates the proposed commits.
func DOT(graph grouping.DiffHunkGraph, groups []grouping.Group) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")

	// groupOf is keyed by composite "fileID:diffHunkID" key, matching
	// Group.DiffHunkIDs' encoding (spec §3's opaque external identifier),
	// not the graph's internal positional UniqueIndex.
	groupOf := make(map[string]int, len(graph.Nodes))
	for _, grp := range groups {
		for _, h := range grp.DiffHunkIDs {
			groupOf[h] = grp.GroupID
		}
	}

	nodesByGroup := make(map[int]*dot.Graph)
	rendered := make(map[string]dot.Node, len(graph.Nodes))

	for _, n := range graph.Nodes {
		groupID := groupOf[n.CompositeKey()]
		cluster, ok := nodesByGroup[groupID]
		if !ok {
			cluster = g.Subgraph(fmt.Sprintf("group %d", groupID), dot.ClusterOption{})
			cluster.Attr("style", "filled")
			cluster.Attr("color", groupColors[groupID%len(groupColors)])
			nodesByGroup[groupID] = cluster
		}

		node := cluster.Node(n.UniqueIndex)
		node.Attr("label", fmt.Sprintf("%s\n%s", n.RelativePath, n.UniqueIndex))
		rendered[n.UniqueIndex] = node
	}

	for _, e := range graph.Edges {
		from, ok := rendered[e.FromUniqueIndex]
		if !ok {
			continue
		}
		to, ok := rendered[e.ToUniqueIndex]
		if !ok {
			continue
		}
		edge := g.Edge(from, to)
		edge.Attr("label", e.Kind.String())
		if e.Kind.String() == "soft" {
			edge.Attr("style", "dashed")
		}
	}

	return g.String()
}
