package diag

import (
	"fmt"
	"strings"

	"github.com/reoring/coerce/i18n"
)

// Diagnostics accumulates recoverable errors and warnings for one coerce call.
//
// Errors recorded while a scope is open are buffered under that scope and only
// become hard errors once they escape the outermost scope. Callers must pair
// every PushScope with exactly one PopScope on every return path.
type Diagnostics struct {
	raw      string
	errors   Issues
	warnings Issues
	scopes   []string
	pending  map[string]Issues
}

// New returns empty Diagnostics bound to the raw input used for error reports.
func New(raw string) *Diagnostics {
	return &Diagnostics{raw: raw, pending: map[string]Issues{}}
}

// Raw returns the raw input the diagnostics are bound to.
func (d *Diagnostics) Raw() string { return d.raw }

// Path returns the dot-joined current scope.
func (d *Diagnostics) Path() string { return joinScope(d.scopes) }

// PushScope enters a named scope (a field name, a list index, "[union]" ...).
func (d *Diagnostics) PushScope(name string) {
	d.scopes = append(d.scopes, name)
}

// PopScope leaves the innermost scope. Errors buffered for it become warnings
// when promoteAsWarning is set; otherwise they move to the enclosing scope, or
// to the hard-error list at the top level.
func (d *Diagnostics) PopScope(promoteAsWarning bool) {
	if len(d.scopes) == 0 {
		panic("diag: PopScope without matching PushScope")
	}
	key := joinScope(d.scopes)
	buffered := d.pending[key]
	delete(d.pending, key)
	d.scopes = d.scopes[:len(d.scopes)-1]

	if len(buffered) == 0 {
		return
	}
	if promoteAsWarning {
		for _, it := range buffered {
			it.Severity = SeverityWarning
			d.warnings = append(d.warnings, it)
		}
		return
	}
	if len(d.scopes) == 0 {
		d.errors = append(d.errors, buffered...)
		return
	}
	parent := joinScope(d.scopes)
	d.pending[parent] = append(d.pending[parent], buffered...)
}

// PushEnumError records that got matched none of the valid enum values.
func (d *Diagnostics) PushEnumError(enum string, got any, valid []string) {
	params := map[string]any{"enum": enum, "got": got, "valid": append([]string(nil), valid...)}
	msg := i18n.T(CodeInvalidEnum, map[string]string{
		"enum":  enum,
		"got":   fmt.Sprint(got),
		"valid": strings.Join(valid, ", "),
	})
	d.pushError(CodeInvalidEnum, msg, params)
}

// PushUnknownError records a coercion failure in the current scope.
func (d *Diagnostics) PushUnknownError(code, msg string) {
	d.pushError(code, msg, nil)
}

// PushUnknownWarning records a warning in the current scope.
func (d *Diagnostics) PushUnknownWarning(code, msg string) {
	d.warnings = append(d.warnings, d.issue(code, msg, SeverityWarning, nil))
}

func (d *Diagnostics) pushError(code, msg string, params map[string]any) {
	it := d.issue(code, msg, SeverityError, params)
	if len(d.scopes) == 0 {
		d.errors = append(d.errors, it)
		return
	}
	key := joinScope(d.scopes)
	d.pending[key] = append(d.pending[key], it)
}

func (d *Diagnostics) issue(code, msg string, sev Severity, params map[string]any) Issue {
	scope := append([]string(nil), d.scopes...)
	return Issue{Scope: scope, Path: joinScope(scope), Code: code, Message: msg, Severity: sev, Params: params}
}

// HasErrors reports whether any hard error has been recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.errors) > 0 }

// Errors returns a copy of the hard errors recorded so far.
func (d *Diagnostics) Errors() Issues { return append(Issues(nil), d.errors...) }

// Warnings returns a copy of the warnings recorded so far.
func (d *Diagnostics) Warnings() Issues { return append(Issues(nil), d.warnings...) }

// Err is the terminal check: nil when no hard error escaped, otherwise a
// *DeserializeError carrying every error, warning and the raw input.
func (d *Diagnostics) Err() error {
	if len(d.errors) == 0 {
		return nil
	}
	return &DeserializeError{
		Errors:   d.Errors(),
		Warnings: d.Warnings(),
		Raw:      d.raw,
	}
}
