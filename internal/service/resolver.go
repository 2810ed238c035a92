package service

import (
	"os"
	"path/filepath"
	"strings"
)

// StaticResolver maps logical asset references to filesystem paths.
// The template layer's static-file machinery injects its own
// implementation; DirResolver covers the plain directory case.
type StaticResolver interface {
	// Resolve returns the absolute path for a reference, or false
	// when the reference does not correspond to a real file.
	Resolve(ref string) (string, bool)

	// Roots enumerates the configured static root directories, in
	// priority order, for path relativization.
	Roots() []string
}

// DirResolver resolves references against a list of root directories,
// first hit wins.
type DirResolver struct {
	roots []string
}

// NewDirResolver creates a resolver over absolute-ized roots.
func NewDirResolver(roots ...string) (*DirResolver, error) {
	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		a, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		abs = append(abs, a)
	}
	return &DirResolver{roots: abs}, nil
}

// Resolve implements StaticResolver.
func (d *DirResolver) Resolve(ref string) (string, bool) {
	rel := strings.TrimPrefix(ref, "/")
	for _, root := range d.roots {
		candidate := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Roots implements StaticResolver.
func (d *DirResolver) Roots() []string {
	return d.roots
}
