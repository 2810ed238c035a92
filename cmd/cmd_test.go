package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the CLI with the given arguments against a clean
// viper instance, capturing combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup. (testing.T.Chdir needs Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func installFakeMinifier(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\nprintf 'min('\ncat \"$1\"\nprintf ')'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uglifyjs"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestInit_WritesConfigOnce(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, configFileName)

	body, err := os.ReadFile(configFileName)
	require.NoError(t, err)
	assert.Contains(t, string(body), "assets:")

	_, err = runCommand(t, "init")
	assert.Error(t, err)
}

func TestPack_BuildsArtifactFromConfig(t *testing.T) {
	installFakeMinifier(t)

	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.MkdirAll(filepath.Join("public", "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("public", "js", "app.js"), []byte("var a = 1;"), 0o644))
	require.NoError(t, os.WriteFile(configFileName, []byte(
		"environment: production\nstatic_roots: [public]\nassets:\n  app.js: [js/app.js]\n"), 0o644))

	out, err := runCommand(t, "pack")
	require.NoError(t, err)
	assert.Contains(t, out, "app.js\t/packed/")

	artifacts, err := filepath.Glob(filepath.Join("public", "packed", "*.js"))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	content, err := os.ReadFile(artifacts[0])
	require.NoError(t, err)
	assert.Equal(t, "min(var a = 1;)\n", string(content))
}

func TestPack_UnknownGroupFails(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll("public", 0o755))
	require.NoError(t, os.WriteFile(configFileName, []byte(
		"static_roots: [public]\nassets:\n  app.js: [js/app.js]\n"), 0o644))
	t.Cleanup(func() { packCmd.Flags().Set("group", "") })

	_, err := runCommand(t, "pack", "--group", "nope.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.js")
}

func TestTools_ReportsMissingProcessors(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	chdir(t, t.TempDir())

	out, err := runCommand(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "script")
	assert.Contains(t, out, "not found")
}
