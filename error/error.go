package error

import (
	"fmt"
	"strings"
)

// FormatError reports a malformed line in a grammar, tag, or word source.
// SourceName and Row are filled in by whoever knows them; Line carries the
// offending text so the diagnostic works for non-seekable sources too.
type FormatError struct {
	Cause      error
	SourceName string
	Row        int
	Line       string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Line != "" {
		fmt.Fprintf(&b, "\n    %v", e.Line)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
