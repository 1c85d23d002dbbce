package changemodel

import "errors"

// Sentinel errors for the change model boundary, matching the taxonomy kinds
// from spec §7 that originate at ingestion time (before reference-graph
// analysis begins).
var (
	// ErrInputEmpty is returned when a working set carries no DiffFiles or no
	// DiffHunks. Callers treat this as informational, not fatal (spec §7).
	ErrInputEmpty = errors.New("changemodel: no diff files or hunks to analyze")

	// ErrInvalidIdentifier is returned when a DiffFile/DiffHunk violates its
	// structural invariants (non-overlapping sorted hunks, non-empty sides).
	ErrInvalidIdentifier = errors.New("changemodel: invalid or malformed identifier")
)
