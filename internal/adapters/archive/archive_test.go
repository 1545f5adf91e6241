package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), domain.FilePerm))
}

type tarEntry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode, Typeflag: e.typeflag, Linkname: e.linkname}
		if e.typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if e.typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), domain.FilePerm))
}

func TestSafeJoin(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{"nested file", "config/options.txt", false},
		{"dot segments inside", "a/../b.txt", false},
		{"parent escape", "../evil.txt", true},
		{"deep escape", "a/../../evil.txt", true},
		{"absolute", "/etc/passwd", true},
		{"backslash escape", `..\evil.txt`, true},
		{"empty", "", true},
		{"self", ".", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := archive.SafeJoin(dir, tt.entry)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrArchiveTraversal)
				return
			}
			require.NoError(t, err)
			rel, err := filepath.Rel(dir, dest)
			require.NoError(t, err)
			assert.NotContains(t, rel, "..")
		})
	}
}

func TestIgnored(t *testing.T) {
	assert.True(t, archive.Ignored("__MACOSX/._file"))
	assert.True(t, archive.Ignored("pack/__MACOSX/._file"))
	assert.True(t, archive.Ignored("pack/.DS_Store"))
	assert.False(t, archive.Ignored("pack/mods/a.jar"))
}

func TestUnzip(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.zip")
	dest := filepath.Join(tmp, "out")

	writeZip(t, src, map[string]string{
		"jre/bin/java":       "binary",
		"jre/release":        "JAVA_VERSION=17",
		"__MACOSX/._release": "junk",
	})

	require.NoError(t, archive.Unzip(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "jre", "bin", "java"))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
	assert.NoDirExists(t, filepath.Join(dest, "__MACOSX"))
}

func TestUnzip_RejectsTraversal(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "evil.zip")
	dest := filepath.Join(tmp, "out")

	writeZip(t, src, map[string]string{"../escaped.txt": "gotcha"})

	err := archive.Unzip(src, dest)
	require.ErrorIs(t, err, domain.ErrArchiveTraversal)
	assert.NoFileExists(t, filepath.Join(tmp, "escaped.txt"))
}

func TestUnzip_MissingArchive(t *testing.T) {
	err := archive.Unzip(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	require.Error(t, err)
}

func TestUntarGz(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "jre.tar.gz")
	dest := filepath.Join(tmp, "out")

	writeTarGz(t, src, []tarEntry{
		{name: "jdk-17/", typeflag: tar.TypeDir, mode: 0o755},
		{name: "jdk-17/bin/java", body: "#!/bin/sh", typeflag: tar.TypeReg, mode: 0o755},
		{name: "jdk-17/lib/java", typeflag: tar.TypeSymlink, linkname: "../bin/java"},
	})

	require.NoError(t, archive.UntarGz(src, dest))

	info, err := os.Stat(filepath.Join(dest, "jdk-17", "bin", "java"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "executable bit is kept")

	link, err := os.Readlink(filepath.Join(dest, "jdk-17", "lib", "java"))
	require.NoError(t, err)
	assert.Equal(t, "../bin/java", link)
}

func TestUntarGz_RejectsTraversal(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out")

	t.Run("file", func(t *testing.T) {
		src := filepath.Join(tmp, "file.tar.gz")
		writeTarGz(t, src, []tarEntry{{name: "../../escaped", body: "x", typeflag: tar.TypeReg, mode: 0o644}})
		require.ErrorIs(t, archive.UntarGz(src, dest), domain.ErrArchiveTraversal)
	})

	t.Run("symlink", func(t *testing.T) {
		src := filepath.Join(tmp, "link.tar.gz")
		writeTarGz(t, src, []tarEntry{{name: "jdk/evil", typeflag: tar.TypeSymlink, linkname: "../../../etc/passwd"}})
		require.ErrorIs(t, archive.UntarGz(src, dest), domain.ErrArchiveTraversal)
	})
}

func TestUntarGz_SymlinkEscapes(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dest, outside string)
		entries func(outside string) []tarEntry
	}{
		{
			name: "link chain",
			entries: func(string) []tarEntry {
				return []tarEntry{
					{name: "a", typeflag: tar.TypeSymlink, linkname: "."},
					{name: "a/b", typeflag: tar.TypeSymlink, linkname: ".."},
					{name: "a/b/evil.txt", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
		{
			name: "absolute target",
			entries: func(outside string) []tarEntry {
				return []tarEntry{
					{name: "abs", typeflag: tar.TypeSymlink, linkname: outside},
					{name: "abs/evil.txt", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
		{
			name: "file through escaping link",
			entries: func(string) []tarEntry {
				return []tarEntry{
					{name: "up", typeflag: tar.TypeSymlink, linkname: "../outside"},
					{name: "up/evil.txt", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
		{
			name: "file through link inside target",
			entries: func(string) []tarEntry {
				return []tarEntry{
					{name: "lib", typeflag: tar.TypeSymlink, linkname: "."},
					{name: "lib/evil.txt", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
		{
			name: "file replacing a created link",
			entries: func(string) []tarEntry {
				return []tarEntry{
					{name: "bin", typeflag: tar.TypeSymlink, linkname: "."},
					{name: "bin", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
		{
			name: "link already on disk",
			setup: func(t *testing.T, dest, outside string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(dest, domain.DirPerm))
				require.NoError(t, os.Symlink(outside, filepath.Join(dest, "pre")))
			},
			entries: func(string) []tarEntry {
				return []tarEntry{
					{name: "pre/evil.txt", body: "x", typeflag: tar.TypeReg, mode: 0o644},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			dest := filepath.Join(tmp, "out")
			outside := filepath.Join(tmp, "outside")
			require.NoError(t, os.MkdirAll(outside, domain.DirPerm))
			if tt.setup != nil {
				tt.setup(t, dest, outside)
			}

			src := filepath.Join(tmp, "jre.tar.gz")
			writeTarGz(t, src, tt.entries(outside))

			require.ErrorIs(t, archive.UntarGz(src, dest), domain.ErrArchiveTraversal)
			assert.NoFileExists(t, filepath.Join(tmp, "evil.txt"))
			assert.NoFileExists(t, filepath.Join(outside, "evil.txt"))
		})
	}
}

func TestUntarGz_LinkReplacedByLink(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "jre.tar.gz")
	dest := filepath.Join(tmp, "out")

	writeTarGz(t, src, []tarEntry{
		{name: "jdk/bin/java", body: "#!/bin/sh", typeflag: tar.TypeReg, mode: 0o755},
		{name: "jdk/java", typeflag: tar.TypeSymlink, linkname: "bin"},
		{name: "jdk/java", typeflag: tar.TypeSymlink, linkname: "bin/java"},
	})

	require.NoError(t, archive.UntarGz(src, dest))

	link, err := os.Readlink(filepath.Join(dest, "jdk", "java"))
	require.NoError(t, err)
	assert.Equal(t, "bin/java", link)
}
