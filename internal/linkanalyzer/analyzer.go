// Package linkanalyzer derives hard and soft links between diff hunks: hard
// links from reference-graph reachability, soft links from pairwise textual
// similarity. Hunk-Link Analyzer, spec §4.3.
package linkanalyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/refgraph"
)

// Config tunes the Analyzer (spec §6's similarityThreshold).
type Config struct {
	// SimilarityThreshold is the minimum normalized similarity, in [0,1],
	// for two equal-length hunk snippets to be linked as a soft link.
	SimilarityThreshold float64
}

// DefaultConfig returns a Config matching spec §6's default similarity
// threshold.
func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.618}
}

// Analyzer derives Links between the DiffHunks of a working set, given the
// base and current version reference graphs built by the Two-Version
// Orchestrator.
type Analyzer struct {
	cfg Config
	dmp *diffmatchpatch.DiffMatchPatch
}

// New constructs an Analyzer.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg, dmp: diffmatchpatch.New()}
}

// Analyze derives the full set of Links for a working set's hunks, given
// both version graphs. Hard-link candidate pairs are derived per-version
// then unioned into a single set before being emitted as Links (spec §4.3
// step 3: "Union the candidate sets from baseGraph and currentGraph. This
// union is the hard-link set"), so a pair witnessed by both versions still
// yields exactly one HARD Link. Soft links are derived once over the
// flattened hunk set. Output is sorted deterministically by (HunkI, HunkJ,
// Kind).
func (a *Analyzer) Analyze(hunks []changemodel.DiffHunk, base, current *refgraph.Graph) []Link {
	pairs := make(map[hunkPair]bool)
	for p := range a.hardLinkPairs(base) {
		pairs[p] = true
	}
	for p := range a.hardLinkPairs(current) {
		pairs[p] = true
	}

	links := make([]Link, 0, len(pairs))
	for p := range pairs {
		links = append(links, Link{HunkI: p.i, HunkJ: p.j, Kind: LinkKindHard})
	}
	links = append(links, a.softLinks(hunks)...)

	sort.Slice(links, func(i, j int) bool {
		if links[i].HunkI != links[j].HunkI {
			return changemodel.LessUniqueIndex(links[i].HunkI, links[j].HunkI)
		}
		if links[i].HunkJ != links[j].HunkJ {
			return changemodel.LessUniqueIndex(links[i].HunkJ, links[j].HunkJ)
		}
		return links[i].Kind < links[j].Kind
	})
	return dedupe(links)
}

// hunkPair is an unordered pair of UniqueIndex values, always stored with
// i before j per changemodel.LessUniqueIndex so it can key a set.
type hunkPair struct {
	i, j string
}

// hardLinkPairs derives the hard-link candidate pairs within one version's
// graph: two hunks are hard-linked when any node tagged with one hunk's
// UniqueIndex is reachable, via the graph's edges treated as undirected,
// from any node tagged with the other's.
func (a *Analyzer) hardLinkPairs(g *refgraph.Graph) map[hunkPair]bool {
	pairs := make(map[hunkPair]bool)
	if g == nil {
		return pairs
	}

	uf := newUnionFind()
	for _, n := range g.Nodes {
		uf.add(n.ID)
	}
	for _, e := range g.Edges {
		uf.union(e.SourceID, e.TargetID)
	}

	hunkNodes := make(map[string][]string) // diffHunkIndex -> node IDs
	for _, n := range g.Nodes {
		if n.IsInDiffHunk {
			hunkNodes[n.DiffHunkIndex] = append(hunkNodes[n.DiffHunkIndex], n.ID)
		}
	}

	var indexes []string
	for idx := range hunkNodes {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool { return changemodel.LessUniqueIndex(indexes[i], indexes[j]) })

	for i := 0; i < len(indexes); i++ {
		for j := i + 1; j < len(indexes); j++ {
			if hunksConnected(uf, hunkNodes[indexes[i]], hunkNodes[indexes[j]]) {
				pairs[hunkPair{i: indexes[i], j: indexes[j]}] = true
			}
		}
	}
	return pairs
}

func hunksConnected(uf *unionFind, nodesA, nodesB []string) bool {
	for _, a := range nodesA {
		for _, b := range nodesB {
			if uf.connected(a, b) {
				return true
			}
		}
	}
	return false
}

// softLinks derives soft links by pairwise comparison of hunks, gated on
// both sides carrying equal-length snippets (spec §4.3 step 1: skip unless
// len(baseHunk(h1)) == len(baseHunk(h2)) AND len(currentHunk(h1)) ==
// len(currentHunk(h2))), then averaging the base-side and current-side
// similarity (spec §4.3 step 2: round((sim_base + sim_current)/2, 2)).
func (a *Analyzer) softLinks(hunks []changemodel.DiffHunk) []Link {
	var links []Link
	for i := 0; i < len(hunks); i++ {
		for j := i + 1; j < len(hunks); j++ {
			hi, hj := hunks[i], hunks[j]
			if len(hi.BaseHunk.Lines) != len(hj.BaseHunk.Lines) ||
				len(hi.CurrentHunk.Lines) != len(hj.CurrentHunk.Lines) {
				continue
			}

			simBase := a.similarity(joinLines(hi.BaseHunk), joinLines(hj.BaseHunk))
			simCurrent := a.similarity(joinLines(hi.CurrentHunk), joinLines(hj.CurrentHunk))
			sim := round2((simBase + simCurrent) / 2)

			if sim >= a.cfg.SimilarityThreshold {
				links = append(links, Link{
					HunkI:      hi.UniqueIndex(),
					HunkJ:      hj.UniqueIndex(),
					Kind:       LinkKindSoft,
					Similarity: sim,
				})
			}
		}
	}
	return links
}

func joinLines(r changemodel.HunkRange) string {
	return strings.Join(r.Lines, "\n")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// similarity returns a normalized similarity in [0,1] between two texts,
// computed as 1 minus the Levenshtein edit distance over the longer text's
// length, via github.com/sergi/go-diff's diffmatchpatch.
func (a *Analyzer) similarity(textA, textB string) float64 {
	if textA == "" && textB == "" {
		return 1
	}
	diffs := a.dmp.DiffMain(textA, textB, false)
	dist := a.dmp.DiffLevenshtein(diffs)

	maxLen := len(textA)
	if len(textB) > maxLen {
		maxLen = len(textB)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

func dedupe(links []Link) []Link {
	seen := make(map[Link]bool, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
