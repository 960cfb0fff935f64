// Package diag collects compiler diagnostics. Unlike chai's logging package,
// which keeps a single package-level Logger, a Bag is created fresh for each
// compilation and threaded explicitly through the pipeline stages -- the core
// is a pure function from (source, config) to (output, diagnostics) and must
// not depend on any process-wide mutable state.
package diag

import (
	"fmt"

	"fastc/internal/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Code is a stable, short alphanumeric diagnostic identifier, e.g. "E0103".
type Code string

// Fix describes a mechanical replacement the user could apply.
type Fix struct {
	Message     string
	Replacement string
	Span        token.Span
}

// Diagnostic is a single compiler-produced message.
type Diagnostic struct {
	Code      Code
	Severity  Severity
	Message   string
	Primary   token.Span
	Secondary []token.Span
	Fix       *Fix
}

// Bag accumulates diagnostics for a single compilation. It is not safe for
// concurrent use by multiple goroutines compiling the same file; the driver
// is expected to create one Bag per independent pipeline (see spec.md §5).
type Bag struct {
	diags []Diagnostic
}

// New returns an empty diagnostic bag.
func New() *Bag {
	return &Bag{}
}

func (b *Bag) add(sev Severity, code Code, span token.Span, message string) *Diagnostic {
	b.diags = append(b.diags, Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  message,
		Primary:  span,
	})
	return &b.diags[len(b.diags)-1]
}

// Errorf records an error-severity diagnostic and returns it so callers may
// attach a Fix or secondary spans.
func (b *Bag) Errorf(code Code, span token.Span, format string, args ...interface{}) *Diagnostic {
	return b.add(Error, code, span, sprintf(format, args...))
}

// Warnf records a warning-severity diagnostic.
func (b *Bag) Warnf(code Code, span token.Span, format string, args ...interface{}) *Diagnostic {
	return b.add(Warning, code, span, sprintf(format, args...))
}

// Notef records a note-severity diagnostic.
func (b *Bag) Notef(code Code, span token.Span, format string, args ...interface{}) *Diagnostic {
	return b.add(Note, code, span, sprintf(format, args...))
}

// HasErrors reports whether any error-severity diagnostic has been recorded.
// This is the instance-scoped analogue of chai's package-level ShouldProceed.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ShouldProceed mirrors chai's naming exactly: true iff no error has been
// recorded yet.
func (b *Bag) ShouldProceed() bool {
	return !b.HasErrors()
}

// All returns the diagnostics recorded so far, in the order they were
// recorded (source order within a stage, stage order across stages, per
// spec.md §5's ordering guarantee).
func (b *Bag) All() []Diagnostic {
	return b.diags
}

// Merge appends other's diagnostics onto b, preserving order.
func (b *Bag) Merge(other *Bag) {
	b.diags = append(b.diags, other.diags...)
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
