package engine

import (
	"errors"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/orchestrator"
)

// ErrorKind classifies an Analyze failure into the taxonomy from spec §7.
type ErrorKind int

const (
	// ErrorKindNone means no error, or an error outside the taxonomy.
	ErrorKindNone ErrorKind = iota
	// ErrorKindInputEmpty: the working set carried no files or hunks.
	// Treated as informational by callers, not fatal.
	ErrorKindInputEmpty
	// ErrorKindParseFailure: one or more files could not be parsed by the
	// reference-graph builder. Analyze still returns a result and reports
	// each failure as a Diagnostic of this kind; Classify never maps an
	// Analyze error to it, even when every source file failed to parse.
	ErrorKindParseFailure
	// ErrorKindBuildTimeout: the shared orchestrator deadline elapsed.
	ErrorKindBuildTimeout
	// ErrorKindBuilderFailure: a builder run failed for a reason other
	// than a timeout or a per-file parse failure (e.g. a materialization
	// error from the change source).
	ErrorKindBuilderFailure
	// ErrorKindInvalidIdentifier: a DiffFile/DiffHunk failed its
	// structural invariants.
	ErrorKindInvalidIdentifier
)

// ErrReservedFeature is returned by New when a reserved tuning
// parameter (spec §9) is configured in a way that implies a hook this
// engine does not implement.
var ErrReservedFeature = errors.New("engine: configured a reserved feature with no registered hook")

// Classify maps an error returned from the Analyze pipeline to its spec §7
// taxonomy kind, via errors.Is against each stage's sentinels.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, changemodel.ErrInputEmpty):
		return ErrorKindInputEmpty
	case errors.Is(err, changemodel.ErrInvalidIdentifier):
		return ErrorKindInvalidIdentifier
	case errors.Is(err, orchestrator.ErrBuildTimeout):
		return ErrorKindBuildTimeout
	default:
		return ErrorKindBuilderFailure
	}
}
