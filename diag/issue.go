package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeInvalidEnum     = "invalid_enum"
	CodeEnumAmbiguous   = "enum_ambiguous"
	CodeRequired        = "required"
	CodeUnknownKey      = "unknown_key"
	CodeUnionNoMatch    = "union_no_match"
	CodeNoValue         = "no_value"
	CodeDuplicateKey    = "duplicate_key"
	CodeTooDeep         = "too_deep"
	CodeTruncated       = "truncated"
	CodeUnrepresentable = "unrepresentable"
)

// Severity expresses the severity level for issues.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// RootPath is the rendered path of an issue recorded outside any scope.
const RootPath = "<root>"

// Issue is a single scoped diagnostic entry.
type Issue struct {
	Scope    []string // Scope stack at the time the issue was recorded (outermost first).
	Path     string   // Dot-joined Scope, or RootPath.
	Code     string   // One of the codes listed above.
	Message  string
	Severity Severity
	// Params carries structured parameters (e.g., {"got":"citronella"}) for
	// i18n and observability.
	Params map[string]any
}

// Depth reports how deeply nested the issue's scope is.
func (it Issue) Depth() int { return len(it.Scope) }

func (it Issue) String() string {
	return fmt.Sprintf("%s: %s", it.Path, it.Message)
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_enum at answer.0
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func joinScope(scope []string) string {
	if len(scope) == 0 {
		return RootPath
	}
	return strings.Join(scope, ".")
}
