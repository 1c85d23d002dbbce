package grouping

import (
	"sort"

	"github.com/viewv/smartcommitcore/internal/changemodel"
)

// Group is one proposed commit group: a connected component of the
// diff-hunk graph, or the reserved non-source bypass group (spec §4.4).
// DiffHunkIDs holds the spec §3 "fileID:diffHunkID" composite keys — the
// opaque identifiers external callers (patch export, persistence) use to
// look a hunk back up — not the internal positional UniqueIndex.
//
// IntentLabel, CommitMsg, and RecommendedCommitMsgs exist in the schema for
// forward compatibility with refactoring-detection/NLG features that are
// explicit Non-goals here; this engine always leaves them empty.
type Group struct {
	GroupID               int      `json:"groupId"`
	DiffHunkIDs           []string `json:"diffHunkIDs"` // composite "fileID:diffHunkID" keys, ordered by (fileIndex, hunkIndex)
	Files                 []string `json:"files"`       // relative paths touched, sorted, deduped
	IntentLabel           string   `json:"intentLabel,omitempty"`
	CommitMsg             string   `json:"commitMsg,omitempty"`
	RecommendedCommitMsgs []string `json:"recommendedCommitMsgs,omitempty"`
}

// hunkRef pairs a hunk's internal UniqueIndex (used for ordering) with its
// external composite key (used for output), so a group's membership can be
// sorted positionally and then exported opaquely.
type hunkRef struct {
	uniqueIndex  string
	compositeKey string
	relativePath string
}

func sortHunkRefs(refs []hunkRef) {
	sort.Slice(refs, func(i, j int) bool {
		return changemodel.LessUniqueIndex(refs[i].uniqueIndex, refs[j].uniqueIndex)
	})
}

func compositeKeysOf(refs []hunkRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.compositeKey
	}
	return out
}

func filePathsOf(refs []hunkRef) []string {
	fileSet := make(map[string]bool, len(refs))
	for _, r := range refs {
		fileSet[r.relativePath] = true
	}
	return sortedKeys(fileSet)
}

// group0ID is the reserved group number for non-source hunks, which bypass
// link analysis entirely (spec §4.3/§4.4).
const group0ID = 0

// BuildGroups partitions a working set's hunks into Groups: group0 for all
// non-source-file hunks, followed by one group per connected component of
// size >= 2 of the DiffHunkGraph, numbered from 1 in ascending order of
// each component's smallest member UniqueIndex (the Builder's determinism
// convention, spec §4.1, extended to group numbering), and last one group
// holding every size-1 component.
func BuildGroups(files []changemodel.DiffFile, g DiffHunkGraph) []Group {
	var groups []Group

	if g0 := buildGroup0(files); g0 != nil {
		groups = append(groups, *g0)
	}

	groups = append(groups, buildComponentGroups(g)...)
	return groups
}

func buildGroup0(files []changemodel.DiffFile) *Group {
	var refs []hunkRef

	for _, f := range files {
		if f.FileType == changemodel.FileTypeSource {
			continue
		}
		for _, h := range f.Hunks {
			refs = append(refs, hunkRef{
				uniqueIndex:  h.UniqueIndex(),
				compositeKey: h.CompositeKey(),
				relativePath: f.RelativePath,
			})
		}
	}

	if len(refs) == 0 {
		return nil
	}

	sortHunkRefs(refs)
	return &Group{GroupID: group0ID, DiffHunkIDs: compositeKeysOf(refs), Files: filePathsOf(refs)}
}

// buildComponentGroups computes connected components of the diff-hunk
// graph and emits one Group per component of size >= 2, ordered by each
// component's smallest UniqueIndex, followed by one final Group holding
// the union of every size-1 component (spec §4.4 steps 4-6: "singletons"
// bucket).
func buildComponentGroups(g DiffHunkGraph) []Group {
	if len(g.Nodes) == 0 {
		return nil
	}

	uf := newUnionFind()
	for _, n := range g.Nodes {
		uf.add(n.UniqueIndex)
	}
	for _, e := range g.Edges {
		uf.union(e.FromUniqueIndex, e.ToUniqueIndex)
	}

	refByUniqueIndex := make(map[string]hunkRef, len(g.Nodes))
	for _, n := range g.Nodes {
		refByUniqueIndex[n.UniqueIndex] = hunkRef{
			uniqueIndex:  n.UniqueIndex,
			compositeKey: n.CompositeKey(),
			relativePath: n.RelativePath,
		}
	}

	components := make(map[string][]string) // root -> member unique indexes
	for _, n := range g.Nodes {
		root := uf.find(n.UniqueIndex)
		components[root] = append(components[root], n.UniqueIndex)
	}

	var multiRoots []string
	var singletons []string
	for root, members := range components {
		if len(members) >= 2 {
			multiRoots = append(multiRoots, root)
		} else {
			singletons = append(singletons, members[0])
		}
	}
	sort.Slice(multiRoots, func(i, j int) bool {
		return changemodel.LessUniqueIndex(minOf(components[multiRoots[i]]), minOf(components[multiRoots[j]]))
	})

	groups := make([]Group, 0, len(multiRoots)+1)
	for _, root := range multiRoots {
		refs := refsOf(components[root], refByUniqueIndex)
		sortHunkRefs(refs)
		groups = append(groups, Group{
			GroupID:     group0ID + 1 + len(groups),
			DiffHunkIDs: compositeKeysOf(refs),
			Files:       filePathsOf(refs),
		})
	}

	if len(singletons) > 0 {
		refs := refsOf(singletons, refByUniqueIndex)
		sortHunkRefs(refs)
		groups = append(groups, Group{
			GroupID:     group0ID + 1 + len(groups),
			DiffHunkIDs: compositeKeysOf(refs),
			Files:       filePathsOf(refs),
		})
	}

	return groups
}

func refsOf(uniqueIndexes []string, refByUniqueIndex map[string]hunkRef) []hunkRef {
	refs := make([]hunkRef, len(uniqueIndexes))
	for i, ui := range uniqueIndexes {
		refs[i] = refByUniqueIndex[ui]
	}
	return refs
}

func minOf(ss []string) string {
	m := ss[0]
	for _, s := range ss[1:] {
		if changemodel.LessUniqueIndex(s, m) {
			m = s
		}
	}
	return m
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
