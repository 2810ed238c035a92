// Package service is the asset packing façade consumed by the
// template-rendering layer. In pack mode a group becomes one cached,
// fingerprinted artifact; in expand mode every member is referenced
// individually, dialect members converted best-effort to plain
// stylesheet syntax next to their source.
package service

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/assetforge/assetforge/internal/cache"
	"github.com/assetforge/assetforge/internal/errors"
	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/logging"
	"github.com/assetforge/assetforge/internal/metrics"
	"github.com/assetforge/assetforge/internal/pipeline"
)

// Service wires the cache, the pipeline runner, and the static
// resolver together.
type Service struct {
	cache    *cache.Cache
	runner   *pipeline.Runner
	resolver StaticResolver
	metrics  *metrics.Metrics
	logger   logging.Logger
	enabled  bool
}

// Options collects the service's injected collaborators.
type Options struct {
	Cache    *cache.Cache
	Runner   *pipeline.Runner
	Resolver StaticResolver
	Metrics  *metrics.Metrics
	Logger   logging.Logger

	// Enabled selects pack mode; expand mode otherwise.
	Enabled bool
}

// New creates the service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		cache:    opts.Cache,
		runner:   opts.Runner,
		resolver: opts.Resolver,
		metrics:  m,
		logger:   logger.WithComponent("service"),
		enabled:  opts.Enabled,
	}
}

// Enabled reports whether the service packs (true) or expands.
func (s *Service) Enabled() bool {
	return s.enabled
}

// PackStylesheets packs an ad-hoc stylesheet group and returns the
// artifact reference.
func (s *Service) PackStylesheets(ctx context.Context, refs []string) (string, error) {
	return s.Pack(ctx, Group{Name: "stylesheets", Type: format.TypeStylesheet, Refs: refs})
}

// PackScripts packs an ad-hoc script group and returns the artifact
// reference.
func (s *Service) PackScripts(ctx context.Context, refs []string) (string, error) {
	return s.Pack(ctx, Group{Name: "scripts", Type: format.TypeScript, Refs: refs})
}

// Pack combines the group's members into one cached artifact and
// returns the artifact's reference relative to a static root. The
// same members in the same order reuse the existing artifact without
// rerunning any pipe.
func (s *Service) Pack(ctx context.Context, group Group) (string, error) {
	paths := s.resolveAll(ctx, group.Refs)
	fp := cache.Fingerprint(paths)
	ext := group.Type.Ext()

	slot, hit, err := s.cache.OpenOrReuse(fp, ext)
	if err != nil {
		return "", err
	}
	if hit {
		s.metrics.CacheHits.Inc()
		return s.refFor(s.cache.Path(fp, ext))
	}

	s.metrics.CacheMisses.Inc()
	s.metrics.Builds.Inc()
	start := time.Now()

	if err := s.runner.Pack(ctx, group.Type, paths, slot.Writer()); err != nil {
		slot.Abort()
		s.metrics.BuildFailures.Inc()
		s.logger.Error(ctx, err, "pack failed", "group", group.Name, "fingerprint", fp)
		return "", err
	}
	if err := slot.Commit(); err != nil {
		s.metrics.BuildFailures.Inc()
		return "", err
	}

	s.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	s.logger.Info(ctx, "artifact built",
		"group", group.Name, "fingerprint", fp, "members", len(paths),
		"duration", time.Since(start).String())

	return s.refFor(slot.Path)
}

// Expand returns one reference per member, unprocessed except that
// stylesheet dialect members are converted to a plain sibling when
// the compiler is available. Conversion failures degrade to the
// original reference; they are logged, never propagated.
func (s *Service) Expand(ctx context.Context, group Group) []string {
	if group.Type == format.TypeScript {
		return append([]string(nil), group.Refs...)
	}

	refs := make([]string, 0, len(group.Refs))
	for _, ref := range group.Refs {
		refs = append(refs, s.expandStylesheet(ctx, ref))
	}
	return refs
}

func (s *Service) expandStylesheet(ctx context.Context, ref string) string {
	if !format.Detect(ref).IsDialect() {
		return ref
	}

	path, ok := s.resolver.Resolve(ref)
	if !ok {
		s.logger.Warn(ctx, nil, "dialect reference did not resolve, serving as-is", "ref", ref)
		return ref
	}

	if _, err := s.runner.ConvertForExpand(ctx, path); err != nil {
		s.logger.Warn(ctx, err, "dialect conversion failed, serving unconverted source", "ref", ref)
		return ref
	}

	// The converted sibling sits next to the source, so the reference
	// only changes extension.
	return strings.TrimSuffix(ref, filepath.Ext(ref)) + ".css"
}

// References returns what the template layer should embed for the
// group: one packed artifact reference in pack mode, one reference
// per member in expand mode.
func (s *Service) References(ctx context.Context, group Group) ([]string, error) {
	if !s.enabled {
		return s.Expand(ctx, group), nil
	}
	ref, err := s.Pack(ctx, group)
	if err != nil {
		return nil, err
	}
	return []string{ref}, nil
}

// Tags renders the embeddable markup fragment for the group, one tag
// per reference.
func (s *Service) Tags(ctx context.Context, group Group) (string, error) {
	refs, err := s.References(ctx, group)
	if err != nil {
		return "", err
	}

	tags := make([]string, 0, len(refs))
	for _, ref := range refs {
		if group.Type == format.TypeScript {
			tags = append(tags, ScriptTag(ref))
		} else {
			tags = append(tags, StylesheetTag(ref))
		}
	}
	return strings.Join(tags, "\n"), nil
}

// StylesheetTag renders a stylesheet link element.
func StylesheetTag(ref string) string {
	return fmt.Sprintf(`<link rel="stylesheet" href="%s">`, html.EscapeString(ref))
}

// ScriptTag renders a script element.
func ScriptTag(ref string) string {
	return fmt.Sprintf(`<script src="%s"></script>`, html.EscapeString(ref))
}

// resolveAll maps references to filesystem paths. Unresolvable
// references pass through unchanged so generated or virtual assets
// can still be named; they fail later, at read time, if genuinely
// absent.
func (s *Service) resolveAll(ctx context.Context, refs []string) []string {
	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		if path, ok := s.resolver.Resolve(ref); ok {
			paths = append(paths, path)
			continue
		}
		s.logger.Debug(ctx, "reference did not resolve against static roots", "ref", ref)
		paths = append(paths, ref)
	}
	return paths
}

// refFor converts an absolute artifact path back into a reference
// relative to one of the static roots. An artifact outside every root
// is a configuration bug and fails the request.
func (s *Service) refFor(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for _, root := range s.resolver.Roots() {
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return "/" + filepath.ToSlash(rel), nil
	}
	return "", &errors.PathResolutionError{Path: abs, Roots: s.resolver.Roots()}
}
