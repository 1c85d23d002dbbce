package gitsource

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/viewv/smartcommitcore/internal/changemodel"
)

var dmp = diffmatchpatch.New()

// hunksBetween computes DiffHunks between a file's old and new full text
// using go-diff's line-mode diff (DiffLinesToChars/DiffCharsToLines
// operate over whole lines by remapping them to single characters before
// running the Myers diff), the same library already wired for soft-link
// similarity in internal/linkanalyzer. Consecutive runs of inserted and/or
// deleted lines are merged into a single DiffHunk, matching conventional
// unified-diff hunking.
func hunksBetween(relPath, oldText, newText string) []changemodel.DiffHunk {
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var hunks []changemodel.DiffHunk
	var oldLine, newLine int
	var baseLines, curLines []string
	var baseStart, curStart int

	flush := func() {
		if len(baseLines) == 0 && len(curLines) == 0 {
			return
		}
		hunks = append(hunks, changemodel.DiffHunk{
			BaseHunk:    rangeOf(relPath, baseStart, baseLines),
			CurrentHunk: rangeOf(relPath, curStart, curLines),
		})
		baseLines, curLines = nil, nil
	}

	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			oldLine += len(lines)
			newLine += len(lines)
		case diffmatchpatch.DiffDelete:
			if len(baseLines) == 0 && len(curLines) == 0 {
				baseStart, curStart = oldLine, newLine
			}
			baseLines = append(baseLines, lines...)
			oldLine += len(lines)
		case diffmatchpatch.DiffInsert:
			if len(baseLines) == 0 && len(curLines) == 0 {
				baseStart, curStart = oldLine, newLine
			}
			curLines = append(curLines, lines...)
			newLine += len(lines)
		}
	}
	flush()
	return hunks
}

func rangeOf(relPath string, start int, lines []string) changemodel.HunkRange {
	if len(lines) == 0 {
		return changemodel.HunkRange{}
	}
	return changemodel.HunkRange{RelativeFilePath: relPath, Start: start, End: start + len(lines), Lines: lines}
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
