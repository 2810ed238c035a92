// Package cache maps asset group fingerprints to on-disk artifacts.
//
// The filesystem's exclusive-create primitive is the only
// synchronization point: the first request for a fingerprint creates
// the artifact name with O_EXCL and becomes the sole builder, every
// later request sees the existing name and reuses it. The builder
// writes into a temporary sibling and renames it over the artifact
// name on success, so a completed artifact is always observed whole.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/assetforge/assetforge/internal/logging"
)

// Fingerprint returns the deterministic identity of an ordered list
// of source identifiers. Same files in the same order yield the same
// fingerprint; any reorder, addition, or removal yields a new one.
func Fingerprint(ids []string) string {
	sum := md5.Sum([]byte(strings.Join(ids, "\n")))
	return hex.EncodeToString(sum[:])
}

// Cache owns the output directory. Concurrent writers coordinate only
// through the exclusive create on artifact names.
type Cache struct {
	dir    string
	logger logging.Logger
}

// New creates the output directory if needed and returns the cache.
func New(dir string, logger logging.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w", dir, err)
	}
	return &Cache{dir: dir, logger: logger.WithComponent("cache")}, nil
}

// Dir returns the output directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the artifact path for a fingerprint and extension.
func (c *Cache) Path(fingerprint, ext string) string {
	return filepath.Join(c.dir, fingerprint+"."+ext)
}

// Slot is a writable handle for a missed fingerprint. The holder must
// call Commit after a successful build or Abort after a failed one.
type Slot struct {
	// Path is the final artifact path the slot publishes to.
	Path string

	tmp     *os.File
	tmpPath string
}

// Writer returns the sink the pipeline appends artifact bytes to.
func (s *Slot) Writer() io.Writer {
	return s.tmp
}

// Commit closes the temporary file and atomically renames it into the
// artifact name, making the artifact visible as a complete unit.
func (s *Slot) Commit() error {
	if err := s.tmp.Close(); err != nil {
		return fmt.Errorf("closing artifact temp file: %w", err)
	}
	if err := os.Rename(s.tmpPath, s.Path); err != nil {
		return fmt.Errorf("publishing artifact %q: %w", s.Path, err)
	}
	return nil
}

// Abort discards the temporary file. The empty gate file stays on
// disk, so the fingerprint is not rebuilt in-process; a reset sweep or
// process restart after manual removal will.
func (s *Slot) Abort() {
	s.tmp.Close()
	os.Remove(s.tmpPath)
}

// OpenOrReuse is the single-writer gate. When the artifact name does
// not exist yet it is created exclusively and a writable Slot is
// returned (hit == false); the caller is the sole builder. When the
// name already exists the artifact is assumed complete and hit == true
// with a nil Slot.
func (c *Cache) OpenOrReuse(fingerprint, ext string) (*Slot, bool, error) {
	final := c.Path(fingerprint, ext)

	gate, err := os.OpenFile(final, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			c.logger.Debug(context.Background(), "cache hit", "artifact", final)
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("creating artifact %q: %w", final, err)
	}
	// The gate file stays empty; all bytes go through the temp file.
	gate.Close()

	tmpPath := final + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("creating artifact temp file %q: %w", tmpPath, err)
	}

	c.logger.Debug(context.Background(), "cache miss", "artifact", final)
	return &Slot{Path: final, tmp: tmp, tmpPath: tmpPath}, false, nil
}

// Reset deletes every artifact from the output directory, forcing all
// fingerprints to rebuild on first use. Dotfiles are left alone.
func (c *Cache) Reset() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading output directory %q: %w", c.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("removing artifact %q: %w", entry.Name(), err)
		}
		removed++
	}

	c.logger.Info(context.Background(), "output directory reset", "removed", removed, "dir", c.dir)
	return nil
}
