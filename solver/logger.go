package solver

import (
	"fmt"
	"io"
)

// VerboseLevel controls the frequency and detail of Logger output,
// adapted from lbfgsb's LogLevel gate idiom.
type VerboseLevel int

const (
	// Quiet disables all output.
	Quiet VerboseLevel = iota
	// Verbose prints one header line per outer iteration, plus a line
	// whenever the inertia correction or the line search fails.
	Verbose
	// VeryVerbose additionally prints one record line per inner
	// iteration (α, δ, dφ, φ, primal/dual infeasibility). The individual
	// δ trials and line-search halvings are not logged.
	VeryVerbose
)

// Logger gates writes to Out by Level, the same shape as lbfgsb.Logger.
type Logger struct {
	Level VerboseLevel
	Out   io.Writer
}

func (l *Logger) enabled(level VerboseLevel) bool {
	return l != nil && l.Out != nil && l.Level >= level
}

func (l *Logger) logf(level VerboseLevel, format string, a ...any) {
	if !l.enabled(level) {
		return
	}
	fmt.Fprintf(l.Out, format, a...)
}
