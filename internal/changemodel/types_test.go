package changemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffHunk_Validate(t *testing.T) {
	tests := []struct {
		name    string
		hunk    DiffHunk
		wantErr bool
	}{
		{
			name: "both sides empty is invalid",
			hunk: DiffHunk{DiffHunkID: "h1", FileID: "f1"},
			wantErr: true,
		},
		{
			name: "pure addition is valid",
			hunk: DiffHunk{DiffHunkID: "h1", FileID: "f1", CurrentHunk: HunkRange{RelativeFilePath: "a.go", Lines: []string{"x"}}},
		},
		{
			name: "pure deletion is valid",
			hunk: DiffHunk{DiffHunkID: "h1", FileID: "f1", BaseHunk: HunkRange{RelativeFilePath: "a.go", Lines: []string{"x"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hunk.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentifier)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDiffFile_Validate(t *testing.T) {
	valid := DiffFile{
		FileID: "f1",
		Hunks: []DiffHunk{
			{BaseHunk: HunkRange{Start: 0, End: 5}, CurrentHunk: HunkRange{Start: 0, End: 5}},
			{BaseHunk: HunkRange{Start: 10, End: 15}, CurrentHunk: HunkRange{Start: 10, End: 15}},
		},
	}
	require.NoError(t, valid.Validate())

	overlapping := DiffFile{
		FileID: "f1",
		Hunks: []DiffHunk{
			{BaseHunk: HunkRange{Start: 0, End: 10}, CurrentHunk: HunkRange{Start: 0, End: 10}},
			{BaseHunk: HunkRange{Start: 5, End: 15}, CurrentHunk: HunkRange{Start: 5, End: 15}},
		},
	}
	err := overlapping.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestSortFiles_ReassignsIndexes(t *testing.T) {
	files := []DiffFile{
		{FileID: "b", RelativePath: "zzz.go", Hunks: []DiffHunk{{DiffHunkID: "h1"}}},
		{FileID: "a", RelativePath: "aaa.go", Hunks: []DiffHunk{{DiffHunkID: "h2"}}},
	}

	sorted := SortFiles(files)

	require.Len(t, sorted, 2)
	assert.Equal(t, "aaa.go", sorted[0].RelativePath)
	assert.Equal(t, 0, sorted[0].FileIndex)
	assert.Equal(t, "0:0", sorted[0].Hunks[0].UniqueIndex())
	assert.Equal(t, "zzz.go", sorted[1].RelativePath)
	assert.Equal(t, 1, sorted[1].FileIndex)
	assert.Equal(t, "1:0", sorted[1].Hunks[0].UniqueIndex())
}

func TestAllHunks_Flattens(t *testing.T) {
	files := []DiffFile{
		{Hunks: []DiffHunk{{DiffHunkID: "h1"}, {DiffHunkID: "h2"}}},
		{Hunks: []DiffHunk{{DiffHunkID: "h3"}}},
	}
	hunks := AllHunks(files)
	require.Len(t, hunks, 3)
	assert.Equal(t, "h1", hunks[0].DiffHunkID)
	assert.Equal(t, "h3", hunks[2].DiffHunkID)
}

func TestCompositeKeyAndUniqueIndex(t *testing.T) {
	assert.Equal(t, "file1:hunk1", CompositeKey("file1", "hunk1"))
	assert.Equal(t, "2:3", UniqueIndex(2, 3))
}

func TestLessUniqueIndex_NumericNotLexicographic(t *testing.T) {
	assert.True(t, LessUniqueIndex("2:0", "10:0"), "fileIndex 2 should sort before 10 numerically")
	assert.False(t, LessUniqueIndex("10:0", "2:0"))
	assert.True(t, LessUniqueIndex("1:2", "1:10"), "hunkIndex 2 should sort before 10 numerically")
	assert.False(t, LessUniqueIndex("1:1", "1:1"))

	// Malformed input falls back to a plain string compare rather than panicking.
	assert.True(t, LessUniqueIndex("abc", "xyz"))
}
