// Package pipeline turns asset group members into concatenated
// artifact bytes. Each Pipe is one external-processor invocation
// pattern (or a plain stream copy); the Runner orders pipes per asset
// type and appends every member's output to the artifact sink in
// declaration order.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/assetforge/assetforge/internal/errors"
	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/tools"
)

// Pipe transforms one input file and appends the produced bytes to w.
// It never truncates or seeks the sink.
type Pipe interface {
	Apply(ctx context.Context, inputPath string, w io.Writer) error
}

// copyPipe streams the input verbatim.
type copyPipe struct{}

func (copyPipe) Apply(_ context.Context, inputPath string, w io.Writer) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.Copy(w, in)
	return err
}

// toolPipe invokes an external processor bound to a source format,
// with the processor's stdout as the produced bytes.
type toolPipe struct {
	format format.Format
	reg    *tools.Registry
	args   func(exe, input string) []string
}

func (p *toolPipe) Apply(ctx context.Context, inputPath string, w io.Writer) error {
	exe, ok := p.reg.Resolve(p.format)
	if !ok {
		return &errors.ProcessError{
			Exe: p.format.String(),
			Err: &errors.ToolUnavailableError{
				Format:     p.format.String(),
				Candidates: tools.Candidates(p.format),
			},
		}
	}

	args := p.args(exe, inputPath)
	cmd := exec.CommandContext(ctx, exe, args...)

	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &errors.ProcessError{
			Exe:    exe,
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return nil
}

// newDialectPipe builds the compile pipe for a stylesheet dialect.
// When compress is set the external compiler is asked for minified
// output, so packed dialect members need no second minify pass.
func newDialectPipe(f format.Format, reg *tools.Registry, compress bool) Pipe {
	return &toolPipe{
		format: f,
		reg:    reg,
		args: func(exe, input string) []string {
			switch f {
			case format.Less:
				if compress {
					return []string{"--compress", input}
				}
				return []string{input}
			default: // Sass
				if strings.HasPrefix(filepath.Base(exe), "sassc") {
					if compress {
						return []string{"-t", "compressed", input}
					}
					return []string{input}
				}
				if compress {
					return []string{"--no-source-map", "--style=compressed", input}
				}
				return []string{"--no-source-map", input}
			}
		},
	}
}

// newMinifyPipe builds the generic script minifier pipe.
func newMinifyPipe(reg *tools.Registry) Pipe {
	return &toolPipe{
		format: format.Script,
		reg:    reg,
		args: func(exe, input string) []string {
			if strings.HasPrefix(filepath.Base(exe), "esbuild") {
				return []string{"--minify", input}
			}
			return []string{input}
		},
	}
}
