package export

import (
	"fmt"
	"strings"
)

// MalformedProjectError reports timeline data that cannot be converted.
// Entry is the 1-based timeline position, or 0 for project-level problems.
type MalformedProjectError struct {
	Project string
	Entry   int
	Field   string
	Reason  string
}

func (e *MalformedProjectError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed project %q", e.Project)
	if e.Entry > 0 {
		fmt.Fprintf(&b, ": entry %d", e.Entry)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}
