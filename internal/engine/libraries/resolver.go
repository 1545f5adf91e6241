// Package libraries turns the libraries of a resolved manifest into a
// classpath and a populated natives directory.
package libraries

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/engine/rules"
)

const (
	// DefaultRepository serves libraries that name no repository of their own.
	DefaultRepository = "https://libraries.minecraft.net/"
	// DefaultMirror is tried when a library's own repository fails.
	DefaultMirror = "https://repo1.maven.org/maven2/"
)

// Request describes one classpath resolution.
type Request struct {
	Manifest *domain.Manifest
	// NativesDir receives the flattened native libraries.
	NativesDir string
	// ClientJar is appended last to the classpath when non-empty.
	ClientJar string
	// Progress, when set, is called after every library.
	Progress func(done, total int)
}

// Result is the outcome of a resolution.
type Result struct {
	Classpath []string
	// Skipped counts libraries that could not be fetched.
	Skipped int
	// Natives counts the native files extracted.
	Natives int
}

// Resolver fetches libraries into the cache layout.
type Resolver struct {
	layout    domain.Layout
	fetcher   ports.Fetcher
	extractor ports.NativeExtractor
	logger    ports.Logger
	platform  domain.Platform
	mirror    string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPlatform overrides the platform rules and natives are evaluated for.
func WithPlatform(p domain.Platform) Option {
	return func(r *Resolver) {
		r.platform = p
	}
}

// WithMirror overrides the fallback Maven repository.
func WithMirror(base string) Option {
	return func(r *Resolver) {
		r.mirror = base
	}
}

// NewResolver creates a Resolver for the current platform.
func NewResolver(
	layout domain.Layout,
	fetcher ports.Fetcher,
	extractor ports.NativeExtractor,
	logger ports.Logger,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		layout:    layout,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
		platform:  domain.CurrentPlatform(),
		mirror:    DefaultMirror,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches every applicable library in manifest order, deduplicated
// by coordinate key with the first occurrence winning. Libraries that cannot
// be fetched are logged and skipped. Only a traversal violation while
// extracting natives or a canceled context fails the resolution.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	libs := rules.Filter(req.Manifest.Libraries, r.platform)
	seen := make(map[string]struct{}, len(libs))

	var res Result
	for i := range libs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.resolveEntry(ctx, &libs[i], req.NativesDir, seen, &res); err != nil {
			return res, err
		}
		if req.Progress != nil {
			req.Progress(i+1, len(libs))
		}
	}

	if req.NativesDir != "" && !r.extractor.HasRenderingLibrary(req.NativesDir) {
		n, err := r.rescanNatives(res.Classpath, req.NativesDir)
		res.Natives += n
		if err != nil {
			return res, err
		}
	}

	if req.ClientJar != "" {
		res.Classpath = append(res.Classpath, req.ClientJar)
	}
	return res, nil
}

func (r *Resolver) resolveEntry(
	ctx context.Context,
	lib *domain.Library,
	nativesDir string,
	seen map[string]struct{},
	res *Result,
) error {
	coord, err := domain.ParseCoordinate(lib.Name)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("skipping library: %v", err))
		res.Skipped++
		return nil
	}
	if _, dup := seen[coord.Key()]; dup {
		return nil
	}
	seen[coord.Key()] = struct{}{}

	n, err := r.resolveLibrary(ctx, lib, coord, nativesDir, res)
	res.Natives += n
	return err
}

func (r *Resolver) resolveLibrary(
	ctx context.Context,
	lib *domain.Library,
	coord domain.Coordinate,
	nativesDir string,
	res *Result,
) (int, error) {
	primary, err := r.fetchPrimary(ctx, lib, coord)
	switch {
	case isContextErr(err):
		return 0, err
	case err != nil:
		r.logger.Warn(fmt.Sprintf("skipping library %s: %v", lib.Name, err))
		res.Skipped++
		return 0, nil
	}

	extracted := 0
	if primary != "" {
		res.Classpath = append(res.Classpath, primary)
		if coord.IsNatives() && nativesDir != "" {
			n, err := r.extract(primary, nativesDir)
			extracted += n
			if err != nil {
				return extracted, err
			}
		}
	}

	if a := lib.NativeClassifier(r.platform); a != nil && nativesDir != "" {
		target := r.layout.LibraryPath(classifierPath(a, coord, lib, r.platform))
		if err := r.fetcher.Download(ctx, a.URL, target); err != nil {
			if isContextErr(err) {
				return extracted, err
			}
			r.logger.Warn(fmt.Sprintf("skipping natives of %s: %v", lib.Name, err))
			return extracted, nil
		}
		n, err := r.extract(target, nativesDir)
		extracted += n
		if err != nil {
			return extracted, err
		}
	}
	return extracted, nil
}

// fetchPrimary downloads the library's own jar and returns its path. It
// returns "" for natives-only entries that carry classifiers but no artifact.
func (r *Resolver) fetchPrimary(ctx context.Context, lib *domain.Library, coord domain.Coordinate) (string, error) {
	if a := lib.Artifact(); a != nil {
		rel := a.Path
		if rel == "" {
			rel = coord.MavenPath()
		}
		target := r.layout.LibraryPath(rel)
		return target, r.fetcher.Download(ctx, a.URL, target)
	}
	if lib.Downloads != nil && len(lib.Downloads.Classifiers) > 0 {
		return "", nil
	}

	rel := coord.MavenPath()
	target := r.layout.LibraryPath(rel)
	base := lib.URL
	if base == "" {
		base = DefaultRepository
	}

	err := r.fetcher.Download(ctx, joinURL(base, rel), target)
	if err == nil || isContextErr(err) || r.mirror == "" || sameBase(base, r.mirror) {
		return target, err
	}
	if mirrorErr := r.fetcher.Download(ctx, joinURL(r.mirror, rel), target); mirrorErr != nil {
		return target, errors.Join(err, mirrorErr)
	}
	return target, nil
}

// extract routes a natives archive through the extractor. Only traversal is fatal.
func (r *Resolver) extract(archive, nativesDir string) (int, error) {
	n, err := r.extractor.Extract(archive, nativesDir)
	if errors.Is(err, domain.ErrArchiveTraversal) {
		return n, err
	}
	if err != nil {
		r.logger.Warn(fmt.Sprintf("failed to extract natives from %s: %v", filepath.Base(archive), err))
	}
	return n, nil
}

// rescanNatives re-extracts from every classpath entry whose file name hints
// at a natives bundle.
func (r *Resolver) rescanNatives(classpath []string, nativesDir string) (int, error) {
	r.logger.Warn("rendering library missing from natives, re-scanning classpath")

	total := 0
	for _, entry := range classpath {
		if !strings.Contains(strings.ToLower(filepath.Base(entry)), "natives") {
			continue
		}
		n, err := r.extract(entry, nativesDir)
		total += n
		if err != nil {
			return total, err
		}
	}
	if !r.extractor.HasRenderingLibrary(nativesDir) {
		r.logger.Warn("rendering library still missing after re-scan")
	}
	return total, nil
}

func classifierPath(a *domain.Artifact, coord domain.Coordinate, lib *domain.Library, p domain.Platform) string {
	if a.Path != "" {
		return a.Path
	}
	classifier := "natives-" + p.OS
	if c, ok := lib.Natives[p.OS]; ok {
		classifier = strings.ReplaceAll(c, "${arch}", p.Bits())
	}
	coord.Classifier = classifier
	return coord.MavenPath()
}

func joinURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + rel
}

func sameBase(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
