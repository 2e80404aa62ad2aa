// Package meta ties a compiled program to its quick-reject filter and runs
// the backtracking matcher on behalf of the public API.
//
// An Engine is built once per pattern and is safe for concurrent use:
//   - the Program and the filters are immutable after construction
//   - per-call matcher state comes from a sync.Pool
//
// Matching is always anchored. Match tries offset 0 only; Search tries each
// offset from 0 up to the last one that can still fit a minimum-length
// match, returning the leftmost success. '^' anchors at the offset being
// tried.
package meta

import "github.com/coregx/tinyre/nfa"

// Config controls engine construction and matching limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.StepLimit = 100_000 // stop pathological backtracking
//	engine, err := meta.CompileWithConfig(`(a|aa)*b`, config)
type Config struct {
	// EnableQuickReject enables the byte presence pre-check in Match.
	// Default: true
	EnableQuickReject bool

	// EnableLiteralFilter adds the required-literal stage to the quick
	// reject. Ignored when EnableQuickReject is false.
	// Default: true
	EnableLiteralFilter bool

	// MinLiteralLen is the minimum length for required literals used by the
	// literal filter. Single bytes are already covered by the byte mask.
	// Default: 2
	MinLiteralLen int

	// MaxLiterals limits the number of literals tracked by the literal
	// filter. Default: 16
	MaxLiterals int

	// MaxRecursionDepth limits group nesting in the pattern. Any pattern
	// within it compiles. Default: 100
	MaxRecursionDepth int

	// StepLimit stops a Match or Search after that many node visits. The
	// result then carries ErrStepLimit. Zero means unbounded.
	// Default: 0
	StepLimit int

	// MaxMatchDepth limits the number of open choice points during a match.
	// Each loop iteration holds one, so long repetitive texts need more.
	// The result then carries ErrDepthLimit.
	// Default: 100,000
	MaxMatchDepth int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableQuickReject:   true,
		EnableLiteralFilter: true,
		MinLiteralLen:       2,
		MaxLiterals:         16,
		MaxRecursionDepth:   100,
		StepLimit:           0,
		MaxMatchDepth:       nfa.DefaultDepthLimit,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 64
//   - MaxRecursionDepth: 1 to 1,000
//   - StepLimit: 0 or more
//   - MaxMatchDepth: 1 to 1,000,000
func (c Config) Validate() error {
	if c.EnableQuickReject && c.EnableLiteralFilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 64 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 64",
			}
		}
	}

	if c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 1 and 1,000",
		}
	}

	if c.StepLimit < 0 {
		return &ConfigError{
			Field:   "StepLimit",
			Message: "must not be negative",
		}
	}

	if c.MaxMatchDepth < 1 || c.MaxMatchDepth > 1_000_000 {
		return &ConfigError{
			Field:   "MaxMatchDepth",
			Message: "must be between 1 and 1,000,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "tinyre: invalid config: " + e.Field + ": " + e.Message
}
