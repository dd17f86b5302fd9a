package coerce

// Severity selects how a load-time anomaly such as a duplicate JSON key is
// reported.
type Severity int

const (
	Ignore Severity = iota
	Warn
)

// DefaultMaxDepth bounds JSON nesting and fragment recursion when
// LoadOpt.MaxDepth is zero.
const DefaultMaxDepth = 64

// LoadOpt bundles loader options.
type LoadOpt struct {
	Driver         DriverName // Strict parse backend; DriverGoJSON when empty.
	MaxDepth       int        // 0 means DefaultMaxDepth.
	MaxBytes       int64      // Longer string inputs are truncated (0 = unlimited).
	OnDuplicateKey Severity   // Ignore or Warn.
}

// DefaultLoadOpt returns the default loader options.
func DefaultLoadOpt() LoadOpt {
	return LoadOpt{Driver: DriverGoJSON, MaxDepth: DefaultMaxDepth}
}

func (o LoadOpt) withDefaults() LoadOpt {
	if o.Driver == "" {
		o.Driver = DriverGoJSON
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
