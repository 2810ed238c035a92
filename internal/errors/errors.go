// Package errors defines the error taxonomy for the asset pipeline:
// external processor failures, unresolved tools, artifact paths that
// escape the configured static roots, and recoverable expand-mode
// conversion failures.
package errors

import (
	"fmt"
	"strings"
)

// ProcessError reports a failed external processor invocation. It is
// fatal to the pack request that triggered it.
type ProcessError struct {
	Exe    string
	Args   []string
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "processor %q", e.Exe)
	if len(e.Args) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(e.Args, " "))
	}
	fmt.Fprintf(&b, " failed: %v", e.Err)
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", strings.TrimSpace(e.Stderr))
	}
	return b.String()
}

// Unwrap returns the underlying spawn or exit error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ToolUnavailableError indicates that no executable could be resolved
// for a source format. Surfaced as a warning at startup; a pipe that
// is invoked without its tool wraps it in a ProcessError.
type ToolUnavailableError struct {
	Format     string
	Candidates []string
}

func (e *ToolUnavailableError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no processor available for %s", e.Format)
	}
	return fmt.Sprintf("no processor available for %s (tried %s)",
		e.Format, strings.Join(e.Candidates, ", "))
}

// PathResolutionError indicates that a produced artifact path is not
// under any configured static root. This is a configuration bug, not
// a transient failure.
type PathResolutionError struct {
	Path  string
	Roots []string
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("artifact path %q is not under any static root %v", e.Path, e.Roots)
}

// ConversionError reports a failed expand-mode dialect conversion.
// Callers recover by falling back to the original, unconverted
// reference; the error exists so the fallback can be logged with its
// cause rather than swallowed.
type ConversionError struct {
	Source string
	Tool   string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %q with %q: %v", e.Source, e.Tool, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
