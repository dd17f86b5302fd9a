package coerce

import (
	"errors"
	"fmt"

	"github.com/reoring/coerce/diag"
)

// ConfigError reports a malformed schema or registry: a missing title, an
// undefined $ref, an unsupported shape. It is raised immediately and never
// accumulated in diagnostics.
type ConfigError struct {
	Op   string // e.g. "register", "resolve", "overload"
	Name string // schema name or reference, when known
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("coerce: %s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("coerce: %s %q: %s", e.Op, e.Name, e.Msg)
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// AsDeserializeError extracts the structured coercion failure from err.
func AsDeserializeError(err error) (*diag.DeserializeError, bool) {
	var de *diag.DeserializeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
