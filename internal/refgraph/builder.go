package refgraph

import (
	"fmt"
	"log"
	"strconv"

	"github.com/viewv/smartcommitcore/internal/changemodel"
)

// Builder transforms a set of source files into a Graph using a two-pass
// algorithm, mirroring the teacher's GraphBuilder (internal/vault/
// graph_builder.go): pass one creates nodes from declarations, pass two
// resolves references into edges. Build keeps all per-build state in
// local variables and only reads the registered parsers, so one Builder
// can serve the base and current builds that internal/orchestrator runs
// concurrently (internal/engine shares a single Builder between them).
type Builder struct {
	parsers []Parser
}

// NewBuilder creates a Builder that dispatches each file to the first
// registered Parser whose CanParse returns true, in registration order.
func NewBuilder(parsers ...Parser) *Builder {
	return &Builder{parsers: parsers}
}

// SourceFile is one file's content for one version, the Builder's input
// unit. projectHunks (spec §4.1) uses DiffHunks to tag nodes built from this
// file's content as IsInDiffHunk.
type SourceFile struct {
	RelativePath string
	Content      string
	// DiffHunks are the hunks of this file relevant to this version (base
	// hunks for the base-version build, current hunks for the
	// current-version build), already positioned in this version's line
	// numbering.
	DiffHunks []changemodel.DiffHunk
}

func (b *Builder) parserFor(filePath string) Parser {
	for _, p := range b.parsers {
		if p.CanParse(filePath) {
			return p
		}
	}
	return nil
}

// Build runs the two-pass algorithm over files, producing a deterministic
// Graph. Files with no registered Parser, or whose Parser returns an error,
// are recorded as ParseFailure diagnostics (spec §7) and excluded from the
// graph; Build itself only returns an error if files is empty.
func (b *Builder) Build(files []SourceFile) (*Graph, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("refgraph: %w", changemodel.ErrInputEmpty)
	}

	g := &Graph{}
	edgeSeq := 0
	nextEdgeID := func() string {
		edgeSeq++
		return "e" + strconv.Itoa(edgeSeq)
	}

	parsed := make([]ParsedFile, 0, len(files))
	byName := make(map[string]Node) // declaration Name -> synthesized Node
	fileOf := make(map[string]SourceFile)

	for _, f := range files {
		fileOf[f.RelativePath] = f

		parser := b.parserFor(f.RelativePath)
		if parser == nil {
			log.Printf("refgraph: no parser registered for %s, skipping", f.RelativePath)
			g.ParseFailures = append(g.ParseFailures, ParseFailure{FilePath: f.RelativePath, Reason: "no parser registered for file type"})
			continue
		}

		pf, err := parser.Parse(f.RelativePath, f.Content)
		if err != nil {
			log.Printf("refgraph: parse failed for %s: %v", f.RelativePath, err)
			g.ParseFailures = append(g.ParseFailures, ParseFailure{FilePath: f.RelativePath, Reason: err.Error()})
			continue
		}
		parsed = append(parsed, pf)
	}

	// Pass 1: nodes, one per file plus one per declaration.
	for _, pf := range parsed {
		fileNode := Node{
			ID:       nodeID(pf.FilePath, ""),
			Name:     pf.FilePath,
			Kind:     "file",
			FilePath: pf.FilePath,
		}
		g.Nodes = append(g.Nodes, fileNode)
		byName[pf.FilePath] = fileNode

		for _, d := range pf.Declarations {
			n := Node{
				ID:        nodeID(pf.FilePath, d.Name),
				Name:      d.Name,
				Kind:      d.Kind,
				FilePath:  pf.FilePath,
				StartLine: d.StartLine,
				EndLine:   d.EndLine,
			}
			g.Nodes = append(g.Nodes, n)
			byName[d.Name] = n
		}
	}

	// Pass 2: edges. Containment from EnclosingName/file, implements from
	// Implements, references resolved by name across the whole file set.
	for _, pf := range parsed {
		for _, d := range pf.Declarations {
			childID := nodeID(pf.FilePath, d.Name)

			parentName := d.EnclosingName
			if parentName == "" {
				parentName = pf.FilePath
			}
			if parent, ok := byName[parentName]; ok {
				g.Edges = append(g.Edges, Edge{ID: nextEdgeID(), SourceID: parent.ID, TargetID: childID, Kind: EdgeKindContains})
			}

			for _, iface := range d.Implements {
				if target, ok := byName[iface]; ok {
					g.Edges = append(g.Edges, Edge{ID: nextEdgeID(), SourceID: childID, TargetID: target.ID, Kind: EdgeKindImplements})
				}
			}
		}

		for _, ref := range pf.References {
			target, ok := byName[ref.ToName]
			if !ok {
				continue
			}
			sourceName := ref.FromName
			if sourceName == "" {
				sourceName = pf.FilePath
			}
			source, ok := byName[sourceName]
			if !ok {
				continue
			}
			g.Edges = append(g.Edges, Edge{ID: nextEdgeID(), SourceID: source.ID, TargetID: target.ID, Kind: EdgeKindReference})
		}
	}

	projectHunks(g, fileOf)
	sortDeterministic(g)
	return g, nil
}

// projectHunks tags each node IsInDiffHunk/DiffHunkIndex when its line
// range intersects a DiffHunk covering the node's file, per spec §4.1's
// isInDiffHunk/diffHunkIndex projection. A file node is tagged when the
// file carries any hunk at all, regardless of line range.
func projectHunks(g *Graph, files map[string]SourceFile) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		f, ok := files[n.FilePath]
		if !ok {
			continue
		}

		var best *changemodel.DiffHunk
		for j := range f.DiffHunks {
			h := &f.DiffHunks[j]
			if n.Kind != "file" && !hunkIntersects(*h, n.StartLine, n.EndLine) {
				continue
			}
			if best == nil || h.FileIndex < best.FileIndex ||
				(h.FileIndex == best.FileIndex && h.HunkIndex < best.HunkIndex) {
				best = h
			}
		}
		if best != nil {
			n.IsInDiffHunk = true
			n.DiffHunkIndex = best.UniqueIndex()
		}
	}
}

// hunkIntersects reports whether a hunk's line range overlaps a node's.
// Hunk ranges are half-open and 0-based, as internal/gitsource produces
// them; node ranges are 1-based and inclusive, so 0-based line i is
// 1-based line i+1.
func hunkIntersects(h changemodel.DiffHunk, start, end int) bool {
	r := h.CurrentHunk
	if r.Empty() {
		r = h.BaseHunk
	}
	return r.Start < end && start <= r.End
}

func nodeID(filePath, declName string) string {
	if declName == "" {
		return filePath
	}
	return filePath + "#" + declName
}
