// Package format classifies asset source files. The Format of a file
// is derived from its extension and selects the transform chain that
// applies to it; the AssetType is the coarser script-vs-stylesheet
// split that an asset group is homogeneous in.
package format

import (
	"path/filepath"
	"strings"
)

// Format is the source format tag of a single input file.
type Format int

const (
	Unknown Format = iota
	Script         // plain JavaScript
	Stylesheet     // plain CSS
	Sass           // Sass/SCSS stylesheet dialect
	Less           // Less stylesheet dialect
)

// String returns the stable tag used in configuration and logs.
func (f Format) String() string {
	switch f {
	case Script:
		return "script"
	case Stylesheet:
		return "style"
	case Sass:
		return "sass"
	case Less:
		return "less"
	default:
		return "unknown"
	}
}

// AssetType is the declared type of an asset group.
type AssetType int

const (
	TypeScript AssetType = iota
	TypeStylesheet
)

// String returns the string representation of the asset type.
func (t AssetType) String() string {
	switch t {
	case TypeScript:
		return "script"
	case TypeStylesheet:
		return "stylesheet"
	default:
		return "unknown"
	}
}

// Ext returns the artifact file extension for the asset type.
func (t AssetType) Ext() string {
	if t == TypeScript {
		return "js"
	}
	return "css"
}

// Detect derives the Format from a file path's extension.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		return Script
	case ".css":
		return Stylesheet
	case ".scss", ".sass":
		return Sass
	case ".less":
		return Less
	default:
		return Unknown
	}
}

// Type maps a Format to the asset type of the group it may appear in.
// Unknown maps to TypeScript arbitrarily; callers validate group
// membership before relying on it.
func (f Format) Type() AssetType {
	switch f {
	case Stylesheet, Sass, Less:
		return TypeStylesheet
	default:
		return TypeScript
	}
}

// IsDialect reports whether the format requires compilation to plain
// stylesheet syntax.
func (f Format) IsDialect() bool {
	return f == Sass || f == Less
}

// NeedsTool reports whether an external processor must be resolved
// for this format. Plain stylesheets are never reprocessed; scripts
// need a minifier only when packing.
func (f Format) NeedsTool() bool {
	return f == Script || f.IsDialect()
}

// Processed lists the formats that require external processing, in
// the order tool resolution reports them.
func Processed() []Format {
	return []Format{Script, Sass, Less}
}

// IsMinified reports whether a script filename marks itself as
// already minified, in which case packing copies it verbatim. The
// convention covers the common "name.min.js" and "name-min.js" forms.
func IsMinified(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return strings.HasSuffix(stem, ".min") || strings.HasSuffix(stem, "-min")
}
