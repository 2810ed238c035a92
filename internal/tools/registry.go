// Package tools resolves external processor executables per source
// format. Resolution happens once at startup: explicit configuration
// overrides win, then candidate names are searched on PATH in order.
// The registry is immutable afterwards and safe for concurrent reads.
package tools

import (
	"context"
	"os/exec"

	"github.com/assetforge/assetforge/internal/errors"
	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/logging"
)

// candidates lists executable names searched on PATH per format,
// first hit wins.
var candidates = map[format.Format][]string{
	format.Script: {"uglifyjs", "terser", "esbuild"},
	format.Sass:   {"sass", "sassc"},
	format.Less:   {"lessc"},
}

// Registry holds the resolved tool bindings. Read-only after
// NewRegistry returns.
type Registry struct {
	bindings map[format.Format]string
}

// NewRegistry resolves a binding for every processing-requiring
// format. Overrides are keyed by format tag (see format.Format.String)
// and are taken verbatim without a PATH search. Unresolved formats are
// logged as warnings, once each; the registry still works for the
// formats that did resolve.
func NewRegistry(overrides map[string]string, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	log := logger.WithComponent("tools")

	r := &Registry{bindings: make(map[format.Format]string, len(candidates))}
	for _, f := range format.Processed() {
		if path, ok := overrides[f.String()]; ok && path != "" {
			r.bindings[f] = path
			log.Debug(context.Background(), "tool override", "format", f.String(), "exe", path)
			continue
		}
		if path, ok := discover(f); ok {
			r.bindings[f] = path
			log.Debug(context.Background(), "tool resolved", "format", f.String(), "exe", path)
			continue
		}
		log.Warn(context.Background(),
			&errors.ToolUnavailableError{Format: f.String(), Candidates: candidates[f]},
			"external processor not found, assets of this format cannot be packed",
			"format", f.String())
	}
	return r
}

// Resolve returns the executable bound to the format, or false when
// none was found at startup.
func (r *Registry) Resolve(f format.Format) (string, bool) {
	path, ok := r.bindings[f]
	return path, ok
}

// Candidates returns the executable names searched for a format.
func Candidates(f format.Format) []string {
	return candidates[f]
}

func discover(f format.Format) (string, bool) {
	for _, name := range candidates[f] {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}
