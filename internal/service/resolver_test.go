package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirResolver_Resolve(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(first, "a.css"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "a.css"), []byte("shadowed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "b.js"), []byte("b"), 0o644))

	resolver, err := NewDirResolver(first, second)
	require.NoError(t, err)

	// First root wins for shadowed names.
	path, ok := resolver.Resolve("a.css")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(first, "a.css"), path)

	// Later roots are consulted in order.
	path, ok = resolver.Resolve("b.js")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(second, "b.js"), path)

	// Leading slash is tolerated.
	_, ok = resolver.Resolve("/a.css")
	assert.True(t, ok)

	// Directories and absent files do not resolve.
	_, ok = resolver.Resolve("missing.css")
	assert.False(t, ok)
	_, ok = resolver.Resolve(".")
	assert.False(t, ok)
}

func TestDirResolver_RootsAreAbsolute(t *testing.T) {
	resolver, err := NewDirResolver("relative/root")
	require.NoError(t, err)

	roots := resolver.Roots()
	require.Len(t, roots, 1)
	assert.True(t, filepath.IsAbs(roots[0]))
}
