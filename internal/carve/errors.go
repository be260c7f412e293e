package carve

import "fmt"

// ToolFailureError reports an external tool that launched but whose output
// indicates failure per that tool's text contract.
type ToolFailureError struct {
	Tool   string
	Stderr string
}

func (e *ToolFailureError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s reported failure", e.Tool)
	}
	return fmt.Sprintf("%s reported failure: %s", e.Tool, e.Stderr)
}

// HashError reports a hash tool run that produced no usable digest.
type HashError struct {
	Path   string
	Stderr string
}

func (e *HashError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("hash tool produced no output for %s", e.Path)
	}
	return fmt.Sprintf("hash tool failed for %s: %s", e.Path, e.Stderr)
}
