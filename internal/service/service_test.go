package service

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/assetforge/assetforge/internal/cache"
	"github.com/assetforge/assetforge/internal/errors"
	"github.com/assetforge/assetforge/internal/pipeline"
	"github.com/assetforge/assetforge/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake processors used across the service tests. Each appends a line
// to $TOOL_LOG (when set) so tests can count invocations, takes its
// input as the last argument, and writes to stdout.
const fakeSass = `if [ -n "$TOOL_LOG" ]; then echo sass >> "$TOOL_LOG"; fi
for last in "$@"; do :; done
case "$*" in
  *compressed*) printf 'min(' ;;
  *) printf 'css(' ;;
esac
cat "$last"
printf ')'
`

const fakeMinify = `if [ -n "$TOOL_LOG" ]; then echo minify >> "$TOOL_LOG"; fi
printf 'min('
cat "$1"
printf ')'
`

func installTools(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	for name, script := range map[string]string{"sass": fakeSass, "uglifyjs": fakeMinify} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name),
			[]byte("#!/bin/sh\n"+script), 0o755))
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func toolLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv("TOOL_LOG", path)
	return path
}

func invocations(t *testing.T, logPath string) int {
	t.Helper()
	raw, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(strings.Split(strings.TrimSpace(string(raw)), "\n"))
}

// newService builds a service over a fresh static root and returns
// the service plus the root directory.
func newService(t *testing.T, enabled bool) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "js"), 0o755))

	resolver, err := NewDirResolver(root)
	require.NoError(t, err)

	c, err := cache.New(filepath.Join(root, "packed"), nil)
	require.NoError(t, err)

	runner := pipeline.NewRunner(tools.NewRegistry(nil, nil), nil, 0)

	return New(Options{
		Cache:    c,
		Runner:   runner,
		Resolver: resolver,
		Enabled:  enabled,
	}), root
}

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
}

func TestPack_StylesheetGroup(t *testing.T) {
	installTools(t)
	svc, root := newService(t, true)
	writeAsset(t, root, "css/theme.scss", "$c: red")
	writeAsset(t, root, "css/base.css", "body{margin:0}")

	ref, err := svc.PackStylesheets(context.Background(), []string{"css/theme.scss", "css/base.css"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/packed/"), "ref %q should live under /packed/", ref)
	assert.True(t, strings.HasSuffix(ref, ".css"))

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/"))))
	require.NoError(t, err)
	// Dialect member compiled+minified, plain member untouched, in
	// declaration order.
	assert.Equal(t, "min($c: red)body{margin:0}", string(content))
}

func TestPack_SecondCallReusesArtifact(t *testing.T) {
	installTools(t)
	log := toolLog(t)
	svc, root := newService(t, true)
	writeAsset(t, root, "css/theme.scss", "$c: red")

	ref1, err := svc.PackStylesheets(context.Background(), []string{"css/theme.scss"})
	require.NoError(t, err)
	after1 := invocations(t, log)
	assert.Equal(t, 1, after1)

	ref2, err := svc.PackStylesheets(context.Background(), []string{"css/theme.scss"})
	require.NoError(t, err)

	assert.Equal(t, ref1, ref2)
	assert.Equal(t, after1, invocations(t, log), "cache hit must not invoke any tool")
}

func TestPack_OrderChangesArtifact(t *testing.T) {
	installTools(t)
	svc, root := newService(t, true)
	writeAsset(t, root, "css/a.css", "a{}")
	writeAsset(t, root, "css/b.css", "b{}")

	ref1, err := svc.PackStylesheets(context.Background(), []string{"css/a.css", "css/b.css"})
	require.NoError(t, err)
	ref2, err := svc.PackStylesheets(context.Background(), []string{"css/b.css", "css/a.css"})
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestPack_ScriptGroupSkipsMinifiedMembers(t *testing.T) {
	installTools(t)
	log := toolLog(t)
	svc, root := newService(t, true)
	writeAsset(t, root, "js/app.js", "var a = 1;")
	writeAsset(t, root, "js/vendor.min.js", "var b=2;")

	ref, err := svc.PackScripts(context.Background(), []string{"js/app.js", "js/vendor.min.js"})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/"))))
	require.NoError(t, err)
	assert.Equal(t, "min(var a = 1;)\nvar b=2;\n", string(content))
	assert.Equal(t, 1, invocations(t, log), "pre-minified member must not reach the minifier")
}

func TestPack_FailurePropagatesAndNoRetryInProcess(t *testing.T) {
	// sass missing entirely: dialect groups fail, the fingerprint's
	// gate stays claimed.
	t.Setenv("PATH", t.TempDir())
	svc, root := newService(t, true)
	writeAsset(t, root, "css/theme.scss", "$c: red")

	_, err := svc.PackStylesheets(context.Background(), []string{"css/theme.scss"})
	var pe *errors.ProcessError
	require.True(t, stderrors.As(err, &pe))
}

func TestPack_ArtifactOutsideRootsIsConfigBug(t *testing.T) {
	installTools(t)
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	writeAsset(t, root, "css/a.css", "a{}")

	resolver, err := NewDirResolver(root)
	require.NoError(t, err)
	c, err := cache.New(outside, nil)
	require.NoError(t, err)

	svc := New(Options{
		Cache:    c,
		Runner:   pipeline.NewRunner(tools.NewRegistry(nil, nil), nil, 0),
		Resolver: resolver,
		Enabled:  true,
	})

	_, err = svc.PackStylesheets(context.Background(), []string{"css/a.css"})
	var pre *errors.PathResolutionError
	require.True(t, stderrors.As(err, &pre))
}

func TestExpand_ConvertsDialectKeepsPlain(t *testing.T) {
	installTools(t)
	svc, root := newService(t, false)
	writeAsset(t, root, "css/a.scss", "$x: 1")
	writeAsset(t, root, "css/b.css", "b{}")

	group, err := NewGroup("app.css", []string{"css/a.scss", "css/b.css"})
	require.NoError(t, err)

	refs := svc.Expand(context.Background(), group)
	assert.Equal(t, []string{"css/a.css", "css/b.css"}, refs)

	// The converted sibling carries plain, non-minified output.
	content, err := os.ReadFile(filepath.Join(root, "css", "a.css"))
	require.NoError(t, err)
	assert.Equal(t, "css($x: 1)", string(content))
}

func TestExpand_ConversionFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sass"),
		[]byte("#!/bin/sh\nexit 1\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	svc, root := newService(t, false)
	writeAsset(t, root, "css/a.scss", "$x: 1")

	group, err := NewGroup("app.css", []string{"css/a.scss"})
	require.NoError(t, err)

	refs := svc.Expand(context.Background(), group)
	assert.Equal(t, []string{"css/a.scss"}, refs)
}

func TestExpand_ScriptsUnprocessed(t *testing.T) {
	installTools(t)
	log := toolLog(t)
	svc, root := newService(t, false)
	writeAsset(t, root, "js/app.js", "var a = 1;")

	group, err := NewGroup("app.js", []string{"js/app.js"})
	require.NoError(t, err)

	refs := svc.Expand(context.Background(), group)
	assert.Equal(t, []string{"js/app.js"}, refs)
	assert.Equal(t, 0, invocations(t, log))
}

func TestReferences_ModeSelection(t *testing.T) {
	installTools(t)

	packed, root := newService(t, true)
	writeAsset(t, root, "css/a.css", "a{}")
	writeAsset(t, root, "css/b.css", "b{}")

	group, err := NewGroup("app.css", []string{"css/a.css", "css/b.css"})
	require.NoError(t, err)

	refs, err := packed.References(context.Background(), group)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	expanded, root2 := newService(t, false)
	writeAsset(t, root2, "css/a.css", "a{}")
	writeAsset(t, root2, "css/b.css", "b{}")

	refs, err = expanded.References(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []string{"css/a.css", "css/b.css"}, refs)
}

func TestTags(t *testing.T) {
	installTools(t)
	svc, root := newService(t, false)
	writeAsset(t, root, "css/b.css", "b{}")
	writeAsset(t, root, "js/app.js", "var a;")

	cssGroup, err := NewGroup("app.css", []string{"css/b.css"})
	require.NoError(t, err)
	fragment, err := svc.Tags(context.Background(), cssGroup)
	require.NoError(t, err)
	assert.Equal(t, `<link rel="stylesheet" href="css/b.css">`, fragment)

	jsGroup, err := NewGroup("app.js", []string{"js/app.js"})
	require.NoError(t, err)
	fragment, err = svc.Tags(context.Background(), jsGroup)
	require.NoError(t, err)
	assert.Equal(t, `<script src="js/app.js"></script>`, fragment)
}
