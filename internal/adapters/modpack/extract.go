package modpack

import (
	"archive/zip"
	"os"
	"strings"

	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extract writes the payload of an archive into destDir and returns the
// number of files written. The common root folder is stripped first. For
// Modrinth only overrides/ is extracted and the prefix stripped; CurseForge
// strips overrides/ when present; MultiMC strips its game folder. Marker
// files are never extracted and any entry escaping destDir aborts with
// domain.ErrArchiveTraversal.
func Extract(zr *zip.Reader, destDir string, d domain.Dialect) (int, error) {
	root := commonRoot(zr.File)

	written := 0
	for _, f := range zr.File {
		name := entryName(f)
		if archive.Ignored(name) {
			continue
		}

		rel, ok := payloadPath(strings.TrimPrefix(name, root), d)
		if !ok || rel == "" || metadataMarkers[rel] {
			continue
		}

		dest, err := archive.SafeJoin(destDir, rel)
		if err != nil {
			return written, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
				return written, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
			}
			continue
		}
		if err := archive.WriteZipFile(f, dest); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// payloadPath maps a root-relative entry name to its destination path.
// It reports false for entries the dialect does not extract.
func payloadPath(rel string, d domain.Dialect) (string, bool) {
	switch d {
	case domain.DialectModrinth:
		if !strings.HasPrefix(rel, overridesPrefix) {
			return "", false
		}
		return strings.TrimPrefix(rel, overridesPrefix), true
	case domain.DialectCurseForge:
		return strings.TrimPrefix(rel, overridesPrefix), true
	case domain.DialectMultiMC:
		if strings.HasPrefix(rel, multiMCGameDir) {
			return strings.TrimPrefix(rel, multiMCGameDir), true
		}
		return strings.TrimPrefix(rel, multiMCGameDirV2), true
	default:
		return rel, true
	}
}
