package image

import "fmt"

// ParseError reports partition-table text the parser cannot use. A parse
// error aborts the whole table: skipping rows would leave downstream
// indices pointing at the wrong partitions.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("invalid partition table: %s", e.Reason)
	}
	return fmt.Sprintf("invalid partition table row %q: %s", e.Line, e.Reason)
}
