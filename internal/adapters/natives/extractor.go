// Package natives extracts platform native libraries from library jars.
package natives

import (
	"archive/zip"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extractor implements ports.NativeExtractor for one platform.
type Extractor struct {
	platform domain.Platform
}

// New creates an Extractor for the given platform.
func New(platform domain.Platform) *Extractor {
	return &Extractor{platform: platform}
}

// Extract writes every native entry of the jar at src into targetDir,
// flattened to its base name. Any entry whose name would escape targetDir
// aborts the extraction with domain.ErrArchiveTraversal.
func (e *Extractor) Extract(src, targetDir string) (int, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "path", src)
	}
	defer func() {
		_ = zr.Close()
	}()

	if err := os.MkdirAll(targetDir, domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", targetDir)
	}

	written := 0
	for _, file := range zr.File {
		if file.FileInfo().IsDir() || archive.Ignored(file.Name) || strings.HasPrefix(file.Name, "META-INF/") {
			continue
		}
		if _, err := archive.SafeJoin(targetDir, file.Name); err != nil {
			return written, err
		}
		if !e.platform.IsNative(file.Name) {
			continue
		}

		dest := filepath.Join(targetDir, path.Base(strings.ReplaceAll(file.Name, `\`, "/")))
		if err := archive.WriteZipFile(file, dest); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// HasRenderingLibrary reports whether dir holds the platform's rendering library.
func (e *Extractor) HasRenderingLibrary(dir string) bool {
	for _, name := range e.platform.RenderingLibraries() {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
