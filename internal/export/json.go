package export

import (
	"encoding/json"
	"fmt"

	"github.com/viewv/smartcommitcore/internal/engine"
)

// RunExport is the JSON shape returned by POST /runs: the proposed
// groups plus the diagnostics that accompanied them, per spec §6/§7.
type RunExport struct {
	RunID       string               `json:"runId"`
	Groups      []engineGroup        `json:"groups"`
	Diagnostics []engineDiagnostic   `json:"diagnostics,omitempty"`
}

// engineGroup mirrors grouping.Group's spec §6 wire shape, with RepoID/
// RepoName carried per group rather than per document since groups are the
// unit external consumers (patch export, persistence) round-trip.
type engineGroup struct {
	RepoID                string   `json:"repoId"`
	RepoName              string   `json:"repoName"`
	GroupID               int      `json:"groupId"`
	DiffHunkIDs           []string `json:"diffHunkIDs"`
	Files                 []string `json:"files"`
	IntentLabel           string   `json:"intentLabel,omitempty"`
	CommitMsg             string   `json:"commitMsg,omitempty"`
	RecommendedCommitMsgs []string `json:"recommendedCommitMsgs,omitempty"`
}

type engineDiagnostic struct {
	Kind     string `json:"kind"`
	FilePath string `json:"filePath,omitempty"`
	Message  string `json:"message"`
}

// JSON renders an Engine Result as a RunExport document. repoID/repoName
// identify the analyzed repository (spec §6's Group JSON fields) and are
// stamped onto every group.
func JSON(runID, repoID, repoName string, result *engine.Result) ([]byte, error) {
	export := RunExport{RunID: runID}
	for _, g := range result.Groups {
		export.Groups = append(export.Groups, engineGroup{
			RepoID:                repoID,
			RepoName:              repoName,
			GroupID:               g.GroupID,
			DiffHunkIDs:           g.DiffHunkIDs,
			Files:                 g.Files,
			IntentLabel:           g.IntentLabel,
			CommitMsg:             g.CommitMsg,
			RecommendedCommitMsgs: g.RecommendedCommitMsgs,
		})
	}
	for _, d := range result.Diagnostics {
		export.Diagnostics = append(export.Diagnostics, engineDiagnostic{
			Kind:     diagnosticKindName(d.Kind),
			FilePath: d.FilePath,
			Message:  d.Message,
		})
	}

	data, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("export: failed to marshal run %s: %w", runID, err)
	}
	return data, nil
}

func diagnosticKindName(kind engine.ErrorKind) string {
	switch kind {
	case engine.ErrorKindInputEmpty:
		return "inputEmpty"
	case engine.ErrorKindParseFailure:
		return "parseFailure"
	case engine.ErrorKindBuildTimeout:
		return "buildTimeout"
	case engine.ErrorKindBuilderFailure:
		return "builderFailure"
	case engine.ErrorKindInvalidIdentifier:
		return "invalidIdentifier"
	default:
		return "none"
	}
}
