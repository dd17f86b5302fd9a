package diag

import (
	"fmt"
	"sort"
	"strings"
)

// DeserializeError is returned when hard errors reach the top level of a
// coerce call.
type DeserializeError struct {
	Errors   Issues
	Warnings Issues
	Raw      string // The original input, verbatim.
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("Failed to Deserialize: (%d errors) (%d warnings)", len(e.Errors), len(e.Warnings))
}

// Unwrap exposes the hard errors so AsIssues and errors.As work on the result.
func (e *DeserializeError) Unwrap() error { return e.Errors }

// Sorted returns errors and warnings ordered deepest scope first. Errors
// precede warnings of the same depth; recording order is kept otherwise.
func (e *DeserializeError) Sorted() Issues {
	all := make(Issues, 0, len(e.Errors)+len(e.Warnings))
	all = append(all, e.Errors...)
	all = append(all, e.Warnings...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Depth() != all[j].Depth() {
			return all[i].Depth() > all[j].Depth()
		}
		return all[i].Severity < all[j].Severity
	})
	return all
}

// Report renders the summary, every scoped message and the raw input.
func (e *DeserializeError) Report() string {
	b := &strings.Builder{}
	b.WriteString(e.Error())
	b.WriteByte('\n')
	for _, it := range e.Sorted() {
		fmt.Fprintf(b, "  [%s] %s: %s (%s)\n", it.Severity, it.Path, it.Message, it.Code)
	}
	b.WriteString("----- raw input -----\n")
	b.WriteString(e.Raw)
	if !strings.HasSuffix(e.Raw, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}
