package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validateConfig validates configuration values for correctness and
// against path traversal in user-controlled paths.
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is not in valid range 0-65535", config.Server.Port)
	}

	if config.OutDir == "" {
		return fmt.Errorf("out_dir must not be empty")
	}
	if err := validatePath(config.OutDir); err != nil {
		return fmt.Errorf("invalid out_dir: %w", err)
	}

	if len(config.StaticRoots) == 0 {
		return fmt.Errorf("at least one static root is required")
	}
	for _, root := range config.StaticRoots {
		if err := validatePath(root); err != nil {
			return fmt.Errorf("invalid static root %q: %w", root, err)
		}
	}

	for name, members := range config.Assets {
		if len(members) == 0 {
			return fmt.Errorf("asset group %q has no members", name)
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".js", ".css":
		default:
			return fmt.Errorf("asset group %q must be named with a .js or .css extension", name)
		}
	}

	if config.ToolTimeout < 0 {
		return fmt.Errorf("tool_timeout must not be negative")
	}

	switch config.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q is not supported (text, json)", config.Log.Format)
	}

	return nil
}

// validatePath rejects traversal segments in a configured path.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) ||
		strings.Contains(clean, string(filepath.Separator)+".."+string(filepath.Separator)) {
		return fmt.Errorf("path contains traversal: %s", path)
	}
	return nil
}
