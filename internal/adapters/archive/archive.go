// Package archive extracts zip and tar.gz archives without letting entries escape their target.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

// Traversal returns an error reporting that entry escapes its target directory.
func Traversal(entry string) error {
	return domain.With(domain.ErrArchiveTraversal, "entry", entry)
}

// SafeJoin joins the slash-separated entry name onto dir.
// It fails with domain.ErrArchiveTraversal when the result is not inside dir.
func SafeJoin(dir, name string) (string, error) {
	if name == "" || path.IsAbs(name) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", Traversal(name)
	}
	if strings.Contains(name, `\`) {
		name = strings.ReplaceAll(name, `\`, "/")
	}

	dest := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(filepath.Clean(dir), dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", Traversal(name)
	}
	return dest, nil
}

// Ignored reports whether an entry is operating-system metadata that is never extracted.
func Ignored(name string) bool {
	name = strings.TrimPrefix(name, "./")
	return strings.HasPrefix(name, "__MACOSX/") ||
		strings.Contains(name, "/__MACOSX/") ||
		path.Base(name) == ".DS_Store"
}

// WriteFile copies r into dest, creating parent directories.
// A zero mode means domain.FilePerm.
func WriteFile(dest string, r io.Reader, mode os.FileMode) (err error) {
	if mode == 0 {
		mode = domain.FilePerm
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: archives come from version manifests and user-chosen modpacks
	if _, err := io.Copy(f, r); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}
	return nil
}

// WriteZipFile extracts a single zip entry to dest.
func WriteZipFile(file *zip.File, dest string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "entry", file.Name)
	}
	defer func() {
		_ = rc.Close()
	}()

	return WriteFile(dest, rc, file.Mode())
}

// Unzip extracts every entry of the zip archive src into dir.
func Unzip(src, dir string) (err error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "path", src)
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, file := range zr.File {
		if Ignored(file.Name) {
			continue
		}
		dest, err := SafeJoin(dir, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
			}
			continue
		}
		if err := WriteZipFile(file, dest); err != nil {
			return err
		}
	}
	return nil
}

// UntarGz extracts the gzip-compressed tar archive src into dir.
// Symbolic links are recreated only when their target stays inside dir,
// and no later entry may be written through a link the archive created.
func UntarGz(src, dir string) error {
	f, err := os.Open(src) //nolint:gosec // path is produced by the caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "path", src)
	}
	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "path", src)
	}
	defer func() {
		_ = gz.Close()
	}()

	x, err := newExtraction(dir)
	if err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", src)
		}
		if Ignored(hdr.Name) || strings.Trim(hdr.Name, "./") == "" {
			continue
		}

		dest, err := SafeJoin(x.dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if _, err := x.parent(hdr.Name, dest, false); err != nil {
				return err
			}
			if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
			}
		case tar.TypeReg:
			if _, err := x.parent(hdr.Name, dest, false); err != nil {
				return err
			}
			if err := WriteFile(dest, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := x.symlink(hdr.Name, dest, hdr.Linkname); err != nil {
				return err
			}
		}
	}
}

// extraction is the state of one UntarGz call.
type extraction struct {
	dir   string
	root  string // dir with symbolic links resolved
	links map[string]struct{}
}

func newExtraction(dir string) (*extraction, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dir)
	}
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dir)
	}
	return &extraction{dir: dir, root: root, links: make(map[string]struct{})}, nil
}

// parent checks that dest can be written without leaving the target and
// returns its parent directory with symbolic links resolved. dest itself
// may be a link created earlier only when replace is set.
func (x *extraction) parent(name, dest string, replace bool) (string, error) {
	rel, err := filepath.Rel(x.dir, dest)
	if err != nil {
		return "", Traversal(name)
	}
	p := x.dir
	parts := strings.Split(rel, string(filepath.Separator))
	for i, part := range parts {
		p = filepath.Join(p, part)
		if _, ok := x.links[p]; ok && (i < len(parts)-1 || !replace) {
			return "", Traversal(name)
		}
	}

	resolved, ok := resolveExisting(filepath.Dir(dest))
	if !ok || !within(x.root, resolved) {
		return "", Traversal(name)
	}
	return resolved, nil
}

func (x *extraction) symlink(name, dest, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) || path.IsAbs(linkname) || filepath.VolumeName(linkname) != "" {
		return Traversal(linkname)
	}
	parent, err := x.parent(name, dest, true)
	if err != nil {
		return err
	}
	if !within(x.root, filepath.Join(parent, filepath.FromSlash(linkname))) {
		return Traversal(linkname)
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}
	_ = os.Remove(dest)
	if err := os.Symlink(linkname, dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}
	x.links[dest] = struct{}{}
	return nil
}

// resolveExisting resolves symbolic links in the deepest existing ancestor
// of p and appends the missing remainder. It reports false when an
// ancestor is a dangling link.
func resolveExisting(p string) (string, bool) {
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), true
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
		if _, err := os.Lstat(p); err == nil {
			return "", false
		}
		next := filepath.Dir(p)
		if next == p {
			return "", false
		}
		rest = append([]string{filepath.Base(p)}, rest...)
		p = next
	}
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && !filepath.IsAbs(rel) && rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
