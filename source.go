package coerce

import (
	eng "github.com/reoring/coerce/internal/engine"
	"github.com/reoring/coerce/source/gojson"
	jsonsrc "github.com/reoring/coerce/source/json"
)

// DriverName selects the strict JSON parse backend used by the loader.
type DriverName string

const (
	DriverGoJSON  DriverName = "go-json"       // github.com/goccy/go-json (default)
	DriverStdJSON DriverName = "encoding/json" // standard library
)

// Drivers lists the supported driver names.
func Drivers() []DriverName { return []DriverName{DriverGoJSON, DriverStdJSON} }

// ParseDriverName validates a driver name; the empty string selects the default.
func ParseDriverName(s string) (DriverName, error) {
	switch n := DriverName(s); n {
	case "":
		return DriverGoJSON, nil
	case DriverGoJSON, DriverStdJSON:
		return n, nil
	}
	return "", &ConfigError{Op: "load", Name: s, Msg: "unknown JSON driver"}
}

func (n DriverName) newBytes(b []byte) eng.TokenSource {
	if n == DriverStdJSON {
		return jsonsrc.NewBytes(b)
	}
	return gojson.NewBytes(b)
}

// enforce wraps src with the depth and duplicate-key checks of opt. Duplicate
// keys are reported to sink when opt asks for warnings.
func enforce(src eng.TokenSource, opt LoadOpt, sink func(eng.SimpleIssue)) eng.TokenSource {
	dup := eng.DupIgnore
	if opt.OnDuplicateKey == Warn {
		dup = eng.DupWarn
	}
	return eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    opt.MaxDepth,
		IssueSink:   sink,
	})
}
