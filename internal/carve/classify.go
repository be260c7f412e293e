package carve

import "strings"

// classifyCopierOutput decides whether a byte-range copy succeeded from
// the copier's output streams. The copier prints a "records in/out"
// summary on success, sometimes on stderr, so:
//
//	stdout contains "records"                  -> success
//	stdout present without "records"           -> failure, whatever stderr says
//	stdout empty, stderr contains "records"    -> success
//	both empty                                 -> failure
//
// Kept as one pure function so the string heuristic can be swapped for a
// structured exit-status contract without touching the orchestrator.
func classifyCopierOutput(stdout, stderr string) bool {
	if stdout != "" {
		return strings.Contains(stdout, "records")
	}
	return strings.Contains(stderr, "records")
}
