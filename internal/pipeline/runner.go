package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/assetforge/assetforge/internal/errors"
	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/logging"
	"github.com/assetforge/assetforge/internal/tools"
)

// Runner selects and orders the transform chain for an asset group
// and concatenates all members' outputs into one sink.
type Runner struct {
	tools   *tools.Registry
	logger  logging.Logger
	timeout time.Duration
}

// NewRunner creates a runner. timeout bounds every external processor
// invocation; zero means no bound.
func NewRunner(reg *tools.Registry, logger logging.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{
		tools:   reg,
		logger:  logger.WithComponent("pipeline"),
		timeout: timeout,
	}
}

// PackScripts concatenates script members into w in declaration
// order. Members whose filename marks them as already minified are
// copied verbatim; everything else runs through the minifier pipe. A
// newline separator follows every member so missing trailing newlines
// cannot glue statements across file boundaries.
func (r *Runner) PackScripts(ctx context.Context, paths []string, w io.Writer) error {
	copier := copyPipe{}
	minifier := newMinifyPipe(r.tools)

	for _, path := range paths {
		var pipe Pipe = minifier
		if format.IsMinified(path) {
			pipe = copier
		}
		if err := r.apply(ctx, pipe, path, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("writing separator after %q: %w", path, err)
		}
	}
	return nil
}

// PackStylesheets concatenates stylesheet members into w in
// declaration order. Dialect members are compiled with minified
// output requested from the compiler; plain members are copied
// verbatim and never re-minified.
func (r *Runner) PackStylesheets(ctx context.Context, paths []string, w io.Writer) error {
	for _, path := range paths {
		var pipe Pipe = copyPipe{}
		if f := format.Detect(path); f.IsDialect() {
			pipe = newDialectPipe(f, r.tools, true)
		}
		if err := r.apply(ctx, pipe, path, w); err != nil {
			return err
		}
	}
	return nil
}

// Pack dispatches to the packing algorithm for the group's declared
// asset type.
func (r *Runner) Pack(ctx context.Context, t format.AssetType, paths []string, w io.Writer) error {
	if t == format.TypeScript {
		return r.PackScripts(ctx, paths, w)
	}
	return r.PackStylesheets(ctx, paths, w)
}

// ConvertForExpand compiles one dialect file to plain stylesheet
// syntax (non-minified) into a sibling file with a .css extension and
// returns the sibling's path. Non-dialect inputs are returned
// unchanged. Unlike packing this is best-effort and uncached; callers
// fall back to the original reference on error.
func (r *Runner) ConvertForExpand(ctx context.Context, path string) (string, error) {
	f := format.Detect(path)
	if !f.IsDialect() {
		return path, nil
	}

	target := strings.TrimSuffix(path, filepath.Ext(path)) + ".css"
	out, err := os.Create(target)
	if err != nil {
		return "", &errors.ConversionError{Source: path, Tool: r.toolName(f), Err: err}
	}

	pipe := newDialectPipe(f, r.tools, false)
	if err := r.apply(ctx, pipe, path, out); err != nil {
		out.Close()
		os.Remove(target)
		return "", &errors.ConversionError{Source: path, Tool: r.toolName(f), Err: err}
	}
	if err := out.Close(); err != nil {
		return "", &errors.ConversionError{Source: path, Tool: r.toolName(f), Err: err}
	}

	r.logger.Debug(ctx, "dialect converted for expand", "source", path, "target", target)
	return target, nil
}

func (r *Runner) apply(ctx context.Context, pipe Pipe, path string, w io.Writer) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return pipe.Apply(ctx, path, w)
}

func (r *Runner) toolName(f format.Format) string {
	if exe, ok := r.tools.Resolve(f); ok {
		return exe
	}
	return f.String()
}
